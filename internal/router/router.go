// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rwidyatama/go-genai-service/internal/handler"
	"github.com/rwidyatama/go-genai-service/internal/middleware"
)

// New builds the Echo router with the global middleware chain and all
// route groups registered.
//
// Middleware order matters: Recover first so panics anywhere below are
// caught, then request identity and tracing so every later stage (and the
// error handler) sees correlation fields.
func New(middlewares *middleware.Middlewares, handlers *handler.Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	e.Use(middlewares.Global.Recover())
	e.Use(middleware.RequestID())
	e.Use(middlewares.Tracing.NewRelicMiddleware())
	e.Use(middlewares.Tracing.EnhanceTracing())
	e.Use(middlewares.ContextEnhancer.EnhanceContext())
	e.Use(middlewares.Global.CORS())
	e.Use(middlewares.Global.Secure())
	e.Use(middlewares.Global.Metrics())
	e.Use(middlewares.Global.RequestLogger())

	registerSystemRoutes(e, handlers)
	registerV1Routes(e, middlewares, handlers)

	return e
}
