package errs

import "strings"

// FieldError represents a field-level validation error.
//
//	{ "field": "prompt", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string enum describing what the client should do next.
type ActionType string

const (
	// ActionTypeRedirect tells the client to navigate elsewhere; Value holds
	// the target URL or route.
	ActionTypeRedirect ActionType = "redirect"

	// ActionTypeRetry tells the client the request may succeed if retried;
	// Value holds the suggested wait in seconds.
	ActionTypeRetry ActionType = "retry"
)

// Action is an optional client instruction attached to an error response.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error type serialized to API clients.
//
// Override lets middleware decide whether the message may be replaced before
// it reaches the client (messages from validation are safe to show verbatim,
// internal ones are not).
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level validation errors, typically for request bodies.
	Errors []FieldError `json:"errors"`

	// Action is an optional client instruction.
	Action *Action `json:"action"`
}

// Error satisfies the built-in error interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, &HTTPError{}) match on type rather than value.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// MakeUpperCaseWithUnderscores converts a status text into a stable machine
// code: "Bad Request" -> "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
