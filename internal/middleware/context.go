package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/rwidyatama/go-genai-service/internal/logger"
	"github.com/rwidyatama/go-genai-service/internal/server"
)

const (
	// UserIDKey and UserRoleKey are the canonical Echo context keys for the
	// authenticated identity, set by the auth middleware.
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"

	// LoggerKey stores the request-scoped logger.
	LoggerKey = "logger"
)

// ContextEnhancer enriches each request with a request-scoped logger
// carrying request_id, method, path, ip, trace ids (when New Relic is
// active) and user identity (when auth ran earlier in the chain).
type ContextEnhancer struct {
	server *server.Server
}

// NewContextEnhancer creates a ContextEnhancer using the app container.
func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext returns the middleware. The logger is stored both in Echo
// context and in the Go request context so non-HTTP code (repositories,
// jobs) can retrieve it with only a context.Context.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := GetRequestID(c)

			contextLogger := ce.server.Logger.With().
				Str("request_id", requestID).
				Str("method", c.Request().Method).
				Str("path", c.Path()). // route template, not raw URL
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			if userID := GetUserID(c); userID != "" {
				contextLogger = contextLogger.With().Str("user_id", userID).Logger()
			}
			if userRole, ok := c.Get(UserRoleKey).(string); ok && userRole != "" {
				contextLogger = contextLogger.With().Str("user_role", userRole).Logger()
			}

			c.Set(LoggerKey, &contextLogger)

			ctx := context.WithValue(c.Request().Context(), loggerCtxKey{}, &contextLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// loggerCtxKey is the private context key type; avoids collisions with
// string keys from other packages.
type loggerCtxKey struct{}

// GetUserID reads the authenticated user id from Echo context.
func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetLogger retrieves the request-scoped logger from Echo context, or a
// no-op logger when the enhancer did not run.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	nop := zerolog.Nop()
	return &nop
}

// LoggerFromContext retrieves the request-scoped logger from a Go context,
// for code below the HTTP layer.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(loggerCtxKey{}).(*zerolog.Logger); ok {
		return logger
	}

	nop := zerolog.Nop()
	return &nop
}
