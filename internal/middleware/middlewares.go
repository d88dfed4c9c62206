package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/rwidyatama/go-genai-service/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server, so
// shared dependencies are wired once and route setup stays clean.
type Middlewares struct {
	// Global holds middleware applied to every route: CORS, request logging,
	// recovery, secure headers, metrics, and the global error handler.
	Global *GlobalMiddlewares

	// Auth provides Clerk-based authentication middleware.
	Auth *AuthMiddleware

	// ContextEnhancer enriches each request with a request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing provides New Relic middleware and transaction attribute helpers.
	Tracing *TracingMiddleware

	// RateLimit enforces per-client request limits on the API routes.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components from the application
// container. When New Relic is not configured, nrApp stays nil and tracing
// middleware degrades to a no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
