// Package llm is the client for the upstream text-generation provider.
//
// It speaks the OpenAI-compatible chat completions wire format, which most
// hosted and self-hosted providers accept. Provider failures are classified
// into typed errors so the API layer can map them onto distinct status codes
// instead of collapsing everything into a 500.
package llm

import (
	"fmt"
)

// ErrorKind classifies provider failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindAuth: the provider rejected our credentials.
	KindAuth
	// KindRateLimited: the provider is throttling us.
	KindRateLimited
	// KindBadRequest: the provider rejected the request payload.
	KindBadRequest
	// KindUnavailable: the provider returned a 5xx.
	KindUnavailable
	// KindTimeout: the request exceeded the configured timeout.
	KindTimeout
)

// Error is a classified provider failure.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string

	// RetryAfterSeconds is set for rate-limit errors when the provider
	// supplied a Retry-After header.
	RetryAfterSeconds int
}

func (e *Error) Error() string {
	return fmt.Sprintf("llm provider error (status %d): %s", e.StatusCode, e.Message)
}

// Is makes errors.Is match on type.
func (e *Error) Is(target error) bool {
	_, ok := target.(*Error)
	return ok
}
