package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rwidyatama/go-genai-service/internal/middleware"
	"github.com/rwidyatama/go-genai-service/internal/server"
)

// HealthHandler exposes the status endpoint load balancers and uptime
// monitors probe. It reports overall health plus per-dependency checks.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(s)}
}

// CheckHealth returns 200 when all dependency checks pass and 503 when any
// fail. The check timeout comes from the health checks config.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	timeout := h.server.Config.Observability.HealthChecks.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]interface{}),
	}
	checks := response["checks"].(map[string]interface{})
	isHealthy := true

	// Database check. Nothing works without the database, so its failure
	// makes the whole service unhealthy.
	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	dbStart := time.Now()
	if err := h.server.DB.Pool.Ping(ctx); err != nil {
		checks["database"] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": time.Since(dbStart).String(),
			"error":         err.Error(),
		}
		isHealthy = false

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(dbStart)).
			Msg("database health check failed")

		h.recordCheckFailure("database", time.Since(dbStart), err)
	} else {
		checks["database"] = map[string]interface{}{
			"status":        "healthy",
			"response_time": time.Since(dbStart).String(),
		}
	}

	// Redis check. The cache degrades to misses and the rate limiter has an
	// in-process fallback, so Redis failure degrades rather than fails.
	if h.server.Redis != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		defer cancel()

		redisStart := time.Now()
		if err := h.server.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = map[string]interface{}{
				"status":        "degraded",
				"response_time": time.Since(redisStart).String(),
				"error":         err.Error(),
			}

			logger.Warn().
				Err(err).
				Dur("response_time", time.Since(redisStart)).
				Msg("redis health check failed")

			h.recordCheckFailure("redis", time.Since(redisStart), err)
		} else {
			checks["redis"] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(redisStart).String(),
			}
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"
		return c.JSON(http.StatusServiceUnavailable, response)
	}
	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordCheckFailure(check string, elapsed time.Duration, err error) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}

	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":       check,
		"operation":        "health_check",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
