package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rwidyatama/go-genai-service/internal/handler"
	"github.com/rwidyatama/go-genai-service/internal/metrics"
)

// registerSystemRoutes registers endpoints that are not business logic:
// health, docs, static assets, and Prometheus metrics. None of them sit
// behind auth or rate limiting.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	// Serves openapi.json and openapi.html (and any future docs assets).
	r.Static("/static", "static")

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
	r.GET("/redoc", h.OpenAPI.ServeRedocUI)

	r.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}
