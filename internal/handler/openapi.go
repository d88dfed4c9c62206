package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/rwidyatama/go-genai-service/internal/server"
)

// OpenAPIHandler serves the interactive API docs UI. The UI is a static
// HTML page that loads the OpenAPI document from the static folder.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{Handler: NewHandler(s)}
}

// ServeOpenAPIUI serves the Swagger UI shell from static/openapi.html.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	return h.servePage(c, "static/openapi.html")
}

// ServeRedocUI serves the Redoc shell from static/redoc.html. Both UIs
// render the same /static/openapi.json document.
func (h *OpenAPIHandler) ServeRedocUI(c echo.Context) error {
	return h.servePage(c, "static/redoc.html")
}

// servePage reads a static HTML page and serves it. Caching is disabled
// so doc updates show up without a hard refresh.
func (h *OpenAPIHandler) servePage(c echo.Context, path string) error {
	page, err := os.ReadFile(path)

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read docs UI template %s: %w", path, err)
	}

	return c.HTML(http.StatusOK, string(page))
}
