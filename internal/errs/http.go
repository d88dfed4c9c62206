package errs

import (
	"net/http"
	"strconv"
)

// NewUnauthorizedError creates a 401 Unauthorized HTTPError.
func NewUnauthorizedError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusUnauthorized)),
		Message:  message,
		Status:   http.StatusUnauthorized,
		Override: override,
	}
}

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusForbidden)),
		Message:  message,
		Status:   http.StatusForbidden,
		Override: override,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code overrides the default "BAD_REQUEST" when non-nil; errors carries
// field-level validation failures; action is an optional client instruction.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewConflictError creates a 409 Conflict HTTPError.
func NewConflictError(message string, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusConflict))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// NewTooManyRequestsError creates a 429 with a retry action hint carrying the
// suggested wait in seconds.
func NewTooManyRequestsError(message string, retryAfterSeconds int) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
		Message: message,
		Status:  http.StatusTooManyRequests,
		Action: &Action{
			Type:    ActionTypeRetry,
			Message: "Retry after the indicated delay",
			Value:   strconv.Itoa(retryAfterSeconds),
		},
	}
}

// NewInternalServerError creates a sanitized 500; clients never see the
// underlying error message.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// NewUpstreamAuthError creates a 502 for provider credential failures. The
// distinct code lets clients separate our misconfiguration from their own.
func NewUpstreamAuthError() *HTTPError {
	return &HTTPError{
		Code:    "UPSTREAM_AUTH",
		Message: "The model provider rejected the service credentials",
		Status:  http.StatusBadGateway,
	}
}

// NewModelBusyError creates a 503 for provider-side throttling.
func NewModelBusyError(retryAfterSeconds int) *HTTPError {
	return &HTTPError{
		Code:    "MODEL_BUSY",
		Message: "The model provider is throttling requests",
		Status:  http.StatusServiceUnavailable,
		Action: &Action{
			Type:    ActionTypeRetry,
			Message: "Retry after the indicated delay",
			Value:   strconv.Itoa(retryAfterSeconds),
		},
	}
}

// NewUpstreamTimeoutError creates a 504 for provider request timeouts.
func NewUpstreamTimeoutError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusGatewayTimeout)),
		Message: "The model provider did not respond in time",
		Status:  http.StatusGatewayTimeout,
	}
}

// ValidationError converts a generic validation error into a 400 HTTPError.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}
