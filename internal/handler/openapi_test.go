package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwidyatama/go-genai-service/internal/server"
)

func writeDocsPage(t *testing.T, name, body string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "static"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "static", name), []byte(body), 0o644))
	t.Chdir(dir)
}

func docsContext(t *testing.T, path string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()

	return echo.New().NewContext(req, rec), rec
}

func TestServeOpenAPIUI(t *testing.T) {
	writeDocsPage(t, "openapi.html", "<html>swagger</html>")

	h := NewOpenAPIHandler(&server.Server{})
	c, rec := docsContext(t, "/docs")

	require.NoError(t, h.ServeOpenAPIUI(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "swagger")
}

func TestServeRedocUI(t *testing.T) {
	writeDocsPage(t, "redoc.html", "<html><redoc spec-url=\"/static/openapi.json\"></redoc></html>")

	h := NewOpenAPIHandler(&server.Server{})
	c, rec := docsContext(t, "/redoc")

	require.NoError(t, h.ServeRedocUI(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "redoc")
}

func TestServeDocsMissingPage(t *testing.T) {
	t.Chdir(t.TempDir())

	h := NewOpenAPIHandler(&server.Server{})
	c, _ := docsContext(t, "/docs")

	assert.Error(t, h.ServeOpenAPIUI(c))
}
