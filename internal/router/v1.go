package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rwidyatama/go-genai-service/internal/handler"
	"github.com/rwidyatama/go-genai-service/internal/middleware"
)

// registerV1Routes registers the business API. Every /v1 route requires
// authentication and counts against the per-client rate limit.
func registerV1Routes(r *echo.Echo, m *middleware.Middlewares, h *handler.Handlers) {
	v1 := r.Group("/v1", m.Auth.RequireAuth, m.RateLimit.Limit())

	completions := v1.Group("/completions")
	completions.POST("", handler.Handle(h.Completion.Handler, h.Completion.Generate, http.StatusCreated))
	completions.POST("/async", handler.Handle(h.Completion.Handler, h.Completion.GenerateAsync, http.StatusAccepted))
	completions.GET("", handler.Handle(h.Completion.Handler, h.Completion.List, http.StatusOK))
	completions.GET("/:id", handler.Handle(h.Completion.Handler, h.Completion.Get, http.StatusOK))
	completions.DELETE("/:id", handler.HandleNoContent(h.Completion.Handler, h.Completion.Delete, http.StatusNoContent))

	templates := v1.Group("/templates")
	templates.POST("", handler.Handle(h.Template.Handler, h.Template.Create, http.StatusCreated))
	templates.GET("", handler.Handle(h.Template.Handler, h.Template.List, http.StatusOK))
	templates.GET("/:id", handler.Handle(h.Template.Handler, h.Template.Get, http.StatusOK))
	templates.PUT("/:id", handler.Handle(h.Template.Handler, h.Template.Update, http.StatusOK))
	templates.DELETE("/:id", handler.HandleNoContent(h.Template.Handler, h.Template.Delete, http.StatusNoContent))
	templates.POST("/:id/render", handler.Handle(h.Template.Handler, h.Template.Render, http.StatusOK))
	templates.POST("/:id/completions", handler.Handle(h.Template.Handler, h.Template.GenerateCompletion, http.StatusCreated))

	v1.POST("/chains", handler.Handle(h.Chain.Handler, h.Chain.Run, http.StatusOK))
}
