package errs

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bad Request", "BAD_REQUEST"},
		{"Too Many Requests", "TOO_MANY_REQUESTS"},
		{"Internal Server Error", "INTERNAL_SERVER_ERROR"},
		{"conflict", "CONFLICT"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MakeUpperCaseWithUnderscores(tt.in))
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *HTTPError
		wantStatus int
		wantCode   string
	}{
		{"unauthorized", NewUnauthorizedError("no token", true), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("no access", false), http.StatusForbidden, "FORBIDDEN"},
		{"bad request", NewBadRequestError("nope", true, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", NewNotFoundError("gone", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", NewConflictError("dup", nil), http.StatusConflict, "CONFLICT"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"upstream auth", NewUpstreamAuthError(), http.StatusBadGateway, "UPSTREAM_AUTH"},
		{"model busy", NewModelBusyError(5), http.StatusServiceUnavailable, "MODEL_BUSY"},
		{"upstream timeout", NewUpstreamTimeoutError(), http.StatusGatewayTimeout, "GATEWAY_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.Status)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestBadRequestCustomCode(t *testing.T) {
	code := "PROMPT_TEMPLATE_ALREADY_EXISTS"
	err := NewBadRequestError("duplicate", true, &code, nil, nil)
	assert.Equal(t, code, err.Code)
	assert.True(t, err.Override)
}

func TestTooManyRequestsRetryAction(t *testing.T) {
	err := NewTooManyRequestsError("slow down", 42)

	require.NotNil(t, err.Action)
	assert.Equal(t, ActionTypeRetry, err.Action.Type)
	assert.Equal(t, "42", err.Action.Value)
}

func TestModelBusyRetryAction(t *testing.T) {
	err := NewModelBusyError(3)

	require.NotNil(t, err.Action)
	assert.Equal(t, ActionTypeRetry, err.Action.Type)
	assert.Equal(t, "3", err.Action.Value)
}

func TestWithMessage(t *testing.T) {
	base := NewNotFoundError("Resource not found", false, nil)
	changed := base.WithMessage("Completion not found")

	assert.Equal(t, "Completion not found", changed.Message)
	assert.Equal(t, base.Status, changed.Status)
	// The original is untouched.
	assert.Equal(t, "Resource not found", base.Message)
}

func TestIsMatchesAnyHTTPError(t *testing.T) {
	err := NewNotFoundError("a", false, nil)

	assert.ErrorIs(t, err, &HTTPError{})
}
