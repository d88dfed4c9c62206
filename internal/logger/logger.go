// Package logger configures the application's logging and observability.
//
// It uses zerolog for structured logging and integrates with New Relic to
// forward logs and correlate them with traces. When no New Relic license key
// is configured everything degrades to plain zerolog output.
package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/rwidyatama/go-genai-service/internal/config"
)

// LoggerService wraps the optional New Relic application instance.
//
// A nil inner application means New Relic is disabled; callers must check
// GetApplication() before instrumenting.
type LoggerService struct {
	app *newrelic.Application
}

// GetApplication returns the New Relic application, or nil when disabled.
func (s *LoggerService) GetApplication() *newrelic.Application {
	if s == nil {
		return nil
	}
	return s.app
}

// Shutdown flushes buffered telemetry. Safe to call when disabled.
func (s *LoggerService) Shutdown(timeout time.Duration) {
	if s == nil || s.app == nil {
		return
	}
	s.app.Shutdown(timeout)
}

// New builds the application logger and the observability service from config.
//
// Output format follows observability.logging.format: "console" gives a
// human-friendly writer for local development, "json" emits machine-parseable
// lines. When New Relic log forwarding is enabled, the JSON writer is wrapped
// so log lines carry trace linking metadata.
func New(cfg *config.Config) (*zerolog.Logger, *LoggerService, error) {
	obs := cfg.Observability

	level, err := zerolog.ParseLevel(obs.GetLogLevel())
	if err != nil {
		return nil, nil, fmt.Errorf("parsing log level: %w", err)
	}

	service := &LoggerService{}
	if obs.NewRelic.LicenseKey != "" {
		opts := []newrelic.ConfigOption{
			newrelic.ConfigAppName(obs.ServiceName),
			newrelic.ConfigLicense(obs.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(obs.NewRelic.DistributedTracingEnabled),
			newrelic.ConfigAppLogForwardingEnabled(obs.NewRelic.AppLogForwardingEnabled),
		}
		if obs.NewRelic.DebugLogging {
			opts = append(opts, newrelic.ConfigDebugLogger(os.Stdout))
		}

		app, err := newrelic.NewApplication(opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing new relic application: %w", err)
		}
		service.app = app
	}

	var logger zerolog.Logger
	switch {
	case obs.Logging.Format == "console":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger()
	case service.app != nil && obs.NewRelic.AppLogForwardingEnabled:
		nrWriter := zerologWriter.New(os.Stdout, service.app)
		logger = zerolog.New(nrWriter).With().Timestamp().Logger()
	default:
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	logger = logger.Level(level).With().
		Str("service", obs.ServiceName).
		Str("env", obs.Environment).
		Logger()

	return &logger, service, nil
}

// WithTraceContext returns a child logger carrying New Relic trace linking
// fields so log lines can be correlated with distributed traces.
func WithTraceContext(logger zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return logger
	}

	md := txn.GetTraceMetadata()
	builder := logger.With()
	if md.TraceID != "" {
		builder = builder.Str("trace.id", md.TraceID)
	}
	if md.SpanID != "" {
		builder = builder.Str("span.id", md.SpanID)
	}
	return builder.Logger()
}
