// Package server defines the Server container that composes the app's main
// dependencies: configuration, logger and observability service, database
// pool, redis client, completion cache, provider client, background job
// service, and the HTTP server itself. It owns startup order and graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	nrredis "github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rwidyatama/go-genai-service/internal/cache"
	"github.com/rwidyatama/go-genai-service/internal/config"
	"github.com/rwidyatama/go-genai-service/internal/database"
	"github.com/rwidyatama/go-genai-service/internal/lib/job"
	"github.com/rwidyatama/go-genai-service/internal/llm"
	loggerPkg "github.com/rwidyatama/go-genai-service/internal/logger"
)

// Server is the application container holding shared resources. It is not
// the HTTP server itself; that lives in the unexported httpServer field and
// is configured via SetupHTTPServer.
type Server struct {
	Config *config.Config
	Logger *zerolog.Logger

	// LoggerService holds the optional New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	// DB holds the PostgreSQL pool wrapper.
	DB *database.Database

	// Redis backs the completion cache, the rate limiter, and Asynq.
	Redis *redis.Client

	// Cache is the completion response cache manager.
	Cache *cache.Manager

	// LLM is the model provider client.
	LLM *llm.Client

	// Job runs background workers and provides a client for enqueueing.
	Job *job.JobService

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// Redis connection failure does not block startup: the cache degrades to
// misses and the rate limiter falls back to its in-process limiter. A
// database failure does block, since nothing works without it.
//
// The job service is constructed but not started; callers start it after
// wiring its handlers to the service layer.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	if loggerService != nil && loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("failed to connect to Redis, continuing without Redis")
	}

	jobService := job.NewJobService(logger, cfg)

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Cache:         cache.NewManager(cfg, redisClient, logger),
		LLM:           llm.NewClient(cfg, logger),
		Job:           jobService,
	}

	return server, nil
}

// SetupHTTPServer configures the internal net/http server around the given
// handler (the Echo router).
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Config stores seconds; these protect against slow clients.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. SetupHTTPServer must be called first.
// It blocks until the server stops or errors.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server (in-flight requests finish
// until ctx expires), then the job workers, then closes the pool, redis,
// and the observability service. Components that were never initialized
// are skipped, so one-shot commands that build a Server without calling
// SetupHTTPServer can still defer Shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}

	if s.LoggerService != nil {
		s.LoggerService.Shutdown(10 * time.Second)
	}

	return nil
}
