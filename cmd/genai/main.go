// Command genai runs the generative AI web service: an HTTP API for prompt
// templates, completions, and prompt chains, plus its schema migrations.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/rwidyatama/go-genai-service/internal/config"
	"github.com/rwidyatama/go-genai-service/internal/database"
	"github.com/rwidyatama/go-genai-service/internal/handler"
	"github.com/rwidyatama/go-genai-service/internal/logger"
	"github.com/rwidyatama/go-genai-service/internal/middleware"
	"github.com/rwidyatama/go-genai-service/internal/repository"
	"github.com/rwidyatama/go-genai-service/internal/router"
	"github.com/rwidyatama/go-genai-service/internal/server"
	"github.com/rwidyatama/go-genai-service/internal/service"
)

// shutdownTimeout bounds graceful shutdown: in-flight requests get this
// long to finish before the process exits.
const shutdownTimeout = 30 * time.Second

var configDir string

func main() {
	root := &cobra.Command{
		Use:           "genai",
		Short:         "Generative AI web service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config", "config", "directory holding the YAML config files")

	root.AddCommand(serveCommand(), migrateCommand(), routesCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run database migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log, loggerService, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer loggerService.Shutdown(5 * time.Second)

			return database.Migrate(cmd.Context(), log, cfg)
		},
	}
}

func routesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the registered HTTP routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log, loggerService, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer loggerService.Shutdown(5 * time.Second)

			srv, err := server.New(cfg, log, loggerService)
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}()

			e := buildRouter(srv)
			for _, route := range e.Routes() {
				fmt.Printf("%-7s %s\n", route.Method, route.Path)
			}
			return nil
		},
	}
}

func runServe() error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, loggerService, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := context.Background()
	if err := database.Migrate(ctx, log, cfg); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		return err
	}

	e := buildRouter(srv)
	srv.SetupHTTPServer(e)

	// Background workers start only after their handlers are wired to the
	// service layer; a worker picking up a task before that would drop it.
	if err := srv.Job.Start(); err != nil {
		return fmt.Errorf("failed to start job service: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// buildRouter wires repositories, services, job handlers, middlewares, and
// HTTP handlers around the server container and returns the Echo router.
func buildRouter(srv *server.Server) *echo.Echo {
	repos := repository.NewRepositories(srv)
	services := service.NewService(srv, repos)

	srv.Job.InitHandlers(services.Completion, services.Usage, services.Usage)

	middlewares := middleware.NewMiddlewares(srv)
	handlers := handler.NewHandlers(srv, services)

	return router.New(middlewares, handlers)
}
