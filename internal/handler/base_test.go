package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwidyatama/go-genai-service/internal/errs"
)

type echoRequest struct {
	Message string `json:"message" validate:"required"`
}

func (r *echoRequest) Validate() error {
	return validate.Struct(r)
}

func invoke(t *testing.T, fn echo.HandlerFunc, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	return rec, fn(c)
}

func TestHandleWritesJSONResponse(t *testing.T) {
	fn := Handle(Handler{}, func(c echo.Context, req *echoRequest) (map[string]string, error) {
		return map[string]string{"echo": req.Message}, nil
	}, http.StatusCreated)

	rec, err := invoke(t, fn, `{"message": "hi"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "hi", body["echo"])
}

func TestHandleReturnsValidationError(t *testing.T) {
	called := false
	fn := Handle(Handler{}, func(c echo.Context, req *echoRequest) (map[string]string, error) {
		called = true
		return nil, nil
	}, http.StatusOK)

	_, err := invoke(t, fn, `{}`)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.False(t, called, "handler must not run when validation fails")
}

func TestHandlePropagatesHandlerError(t *testing.T) {
	want := errs.NewNotFoundError("Completion not found", true, nil)
	fn := Handle(Handler{}, func(c echo.Context, req *echoRequest) (map[string]string, error) {
		return nil, want
	}, http.StatusOK)

	_, err := invoke(t, fn, `{"message": "hi"}`)
	assert.Same(t, want, err)
}

func TestHandleAllocatesFreshRequestPerCall(t *testing.T) {
	var seen []*echoRequest
	fn := Handle(Handler{}, func(c echo.Context, req *echoRequest) (map[string]string, error) {
		seen = append(seen, req)
		return nil, nil
	}, http.StatusOK)

	_, err := invoke(t, fn, `{"message": "one"}`)
	require.NoError(t, err)
	_, err = invoke(t, fn, `{"message": "two"}`)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.NotSame(t, seen[0], seen[1])
	assert.Equal(t, "one", seen[0].Message)
	assert.Equal(t, "two", seen[1].Message)
}

func TestHandleNoContent(t *testing.T) {
	fn := HandleNoContent(Handler{}, func(c echo.Context, req *echoRequest) error {
		return nil
	}, http.StatusNoContent)

	rec, err := invoke(t, fn, `{"message": "hi"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

type modeResponse struct {
	Mode   string `json:"mode"`
	status int
}

func (r *modeResponse) StatusCode() int {
	return r.status
}

func TestHandleRespectsStatusCoder(t *testing.T) {
	fn := Handle(Handler{}, func(c echo.Context, req *echoRequest) (*modeResponse, error) {
		return &modeResponse{Mode: req.Message, status: http.StatusAccepted}, nil
	}, http.StatusCreated)

	rec, err := invoke(t, fn, `{"message": "async"}`)
	require.NoError(t, err)

	// The response body picks 202 over the route's fixed 201.
	assert.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "async", body["mode"])
}
