package middleware

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/rwidyatama/go-genai-service/internal/errs"
	"github.com/rwidyatama/go-genai-service/internal/metrics"
	"github.com/rwidyatama/go-genai-service/internal/server"
)

// RateLimitMiddleware enforces per-client request limits on API routes.
//
// Primary enforcement is a Redis fixed-window counter keyed by client and
// minute, so limits hold across replicas. When Redis is unreachable the
// middleware falls back to per-client in-process token buckets
// (golang.org/x/time/rate) rather than failing open completely.
type RateLimitMiddleware struct {
	server *server.Server

	mu       sync.Mutex
	fallback map[string]*rate.Limiter
}

// NewRateLimitMiddleware constructs a RateLimitMiddleware.
func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server:   s,
		fallback: make(map[string]*rate.Limiter),
	}
}

// Limit returns the enforcement middleware. The client key is the
// authenticated user id when present, otherwise the client IP.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Enabled {
				return next(c)
			}

			key := GetUserID(c)
			if key == "" {
				key = c.RealIP()
			}

			allowed, remaining, retryAfter, err := r.allowRedis(c, key, cfg.RequestsPerMinute)
			if err != nil {
				// Redis down: degrade to the in-process limiter.
				allowed = r.allowFallback(key, cfg.RequestsPerMinute, cfg.Burst)
				remaining = -1
				retryAfter = 1
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
			if remaining >= 0 {
				c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			}

			if !allowed {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))

				metrics.ObserveRateLimited()
				r.RecordRateLimitHit(c.Path())

				GetLogger(c).Warn().
					Str("client", key).
					Str("path", c.Path()).
					Msg("rate limit exceeded")

				return errs.NewTooManyRequestsError("Rate limit exceeded", retryAfter)
			}

			return next(c)
		}
	}
}

// allowRedis runs the fixed-window check: INCR on a per-minute key, with an
// expiry slightly past the window so idle keys clean themselves up.
func (r *RateLimitMiddleware) allowRedis(c echo.Context, key string, limit int) (allowed bool, remaining, retryAfter int, err error) {
	ctx := c.Request().Context()
	now := time.Now()
	window := now.Unix() / 60

	redisKey := fmt.Sprintf("genai:ratelimit:%s:%d", key, window)

	pipe := r.server.Redis.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, err
	}

	count := int(incr.Val())
	remaining = limit - count
	if remaining < 0 {
		remaining = 0
	}

	// Seconds until the current window rolls over.
	retryAfter = int(60 - now.Unix()%60)
	if retryAfter <= 0 {
		retryAfter = 1
	}

	return count <= limit, remaining, retryAfter, nil
}

// allowFallback consults the per-client in-process token bucket.
func (r *RateLimitMiddleware) allowFallback(key string, perMinute, burst int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, ok := r.fallback[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)
		r.fallback[key] = limiter

		// Crude bound on map growth; entries are cheap and the fallback
		// only runs during Redis outages.
		if len(r.fallback) > 10000 {
			r.fallback = map[string]*rate.Limiter{key: limiter}
		}
	}

	return limiter.Allow()
}

// RecordRateLimitHit emits a New Relic custom event for a rejected request.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
