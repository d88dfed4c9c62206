package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwidyatama/go-genai-service/internal/errs"
)

var testValidate = validator.New()

type testRequest struct {
	Prompt      string  `json:"prompt" validate:"required,min=1"`
	Temperature float64 `json:"temperature" validate:"gte=0,lte=2"`
}

func (r *testRequest) Validate() error {
	return testValidate.Struct(r)
}

func newContext(t *testing.T, body string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidateSuccess(t *testing.T) {
	payload := &testRequest{}
	err := BindAndValidate(newContext(t, `{"prompt": "hello", "temperature": 0.5}`), payload)

	require.NoError(t, err)
	assert.Equal(t, "hello", payload.Prompt)
	assert.Equal(t, 0.5, payload.Temperature)
}

func TestBindAndValidateMalformedBody(t *testing.T) {
	err := BindAndValidate(newContext(t, `{"prompt": `), &testRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	err := BindAndValidate(newContext(t, `{"temperature": 3}`), &testRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Errors, 2)

	fields := map[string]string{}
	for _, fe := range httpErr.Errors {
		fields[fe.Field] = fe.Error
	}
	assert.Equal(t, "is required", fields["prompt"])
	assert.Contains(t, fields["temperature"], "must not exceed 2")
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	payload := &customRequest{}
	err := BindAndValidate(newContext(t, `{"id": "not-a-uuid"}`), payload)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "id", httpErr.Errors[0].Field)
	assert.Equal(t, "must be a valid UUID", httpErr.Errors[0].Error)
}

type customRequest struct {
	ID string `json:"id"`
}

func (r *customRequest) Validate() error {
	if !IsValidUUID(r.ID) {
		return CustomValidationErrors{{Field: "id", Message: "must be a valid UUID"}}
	}
	return nil
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	assert.True(t, IsValidUUID("6BA7B810-9DAD-11D1-80B4-00C04FD430C8"))
	assert.False(t, IsValidUUID("6ba7b810-9dad-11d1-80b4"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
}
