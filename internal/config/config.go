// Package config loads and validates application configuration.
//
// Configuration comes from three YAML files under a config directory
// (database_config.yml, model_config.yml, logging_config.yml) merged in
// order, then overridden by GENAI_-prefixed environment variables so
// deployments can patch single values without editing files.
//
// Responsibilities:
//   - Load the YAML files and environment overrides into structured Go types.
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional blocks (observability, cache, limits).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a .env file into the process environment
	// before any env vars are read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
)

// EnvPrefix is the prefix for environment variable overrides.
// GENAI_SERVER.PORT maps to the "server.port" key.
const EnvPrefix = "GENAI_"

// ConfigFiles are the YAML files loaded from the config directory, in merge order.
var ConfigFiles = []string{
	"database_config.yml",
	"model_config.yml",
	"logging_config.yml",
}

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional; defaults are injected
// at load time when the logging config omits it.
type Config struct {
	Primary     Primary           `koanf:"primary" validate:"required"`
	Server      ServerConfig      `koanf:"server" validate:"required"`
	Database    DatabaseConfig    `koanf:"database" validate:"required"`
	Redis       RedisConfig       `koanf:"redis" validate:"required"`
	Auth        AuthConfig        `koanf:"auth" validate:"required"`
	Model       ModelConfig       `koanf:"model" validate:"required"`
	Cache       CacheConfig       `koanf:"cache"`
	RateLimit   RateLimitConfig   `koanf:"rate_limit"`
	Retention   RetentionConfig   `koanf:"retention"`
	Integration IntegrationConfig `koanf:"integration"`

	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details. Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores authentication secrets (Clerk secret key).
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// ModelConfig describes the upstream text-generation provider and the
// defaults applied to completion requests that do not set their own
// parameters.
//
// Prices are per 1K tokens and kept as strings so they can be parsed into
// exact decimals; float config values would drift on arithmetic.
type ModelConfig struct {
	Provider             string  `koanf:"provider" validate:"required"`
	BaseURL              string  `koanf:"base_url" validate:"required,url"`
	APIKey               string  `koanf:"api_key" validate:"required"`
	Name                 string  `koanf:"name" validate:"required"`
	Temperature          float64 `koanf:"temperature" validate:"gte=0,lte=2"`
	MaxTokens            int     `koanf:"max_tokens" validate:"required,min=1"`
	RequestTimeout       int     `koanf:"request_timeout" validate:"required,min=1"`
	PromptPricePer1K     string  `koanf:"prompt_price_per_1k"`
	CompletionPricePer1K string  `koanf:"completion_price_per_1k"`
}

// PromptRate returns the per-1K-token price for prompt tokens.
func (m ModelConfig) PromptRate() decimal.Decimal {
	return mustPrice(m.PromptPricePer1K)
}

// CompletionRate returns the per-1K-token price for completion tokens.
func (m ModelConfig) CompletionRate() decimal.Decimal {
	return mustPrice(m.CompletionPricePer1K)
}

// mustPrice assumes Validate already ran; unparseable prices become zero.
func mustPrice(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Validate applies model config rules that go beyond struct tags.
func (m ModelConfig) Validate() error {
	for _, price := range []string{m.PromptPricePer1K, m.CompletionPricePer1K} {
		if price == "" {
			continue
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return fmt.Errorf("invalid model price %q: %w", price, err)
		}
		if d.IsNegative() {
			return fmt.Errorf("model price must be non-negative, got %s", price)
		}
	}
	return nil
}

// CacheConfig controls the completion response cache.
type CacheConfig struct {
	Enabled    bool   `koanf:"enabled"`
	TTLSeconds int    `koanf:"ttl_seconds"`
	Prefix     string `koanf:"prefix"`
}

// RateLimitConfig controls per-client request limiting.
//
// RequestsPerMinute drives the Redis fixed-window counter; Burst only applies
// to the in-process fallback limiter used when Redis is unreachable.
type RateLimitConfig struct {
	Enabled           bool `koanf:"enabled"`
	RequestsPerMinute int  `koanf:"requests_per_minute"`
	Burst             int  `koanf:"burst"`
}

// RetentionConfig controls background housekeeping: how long completions are
// kept and when usage reports go out.
type RetentionConfig struct {
	CompletionDays  int    `koanf:"completion_days"`
	ReportSchedule  string `koanf:"report_schedule"`
	ReportRecipient string `koanf:"report_recipient"`
}

// IntegrationConfig stores third-party API credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
}

// Load reads configuration from the YAML files in dir, applies GENAI_
// environment overrides, validates the result, and fills in defaults.
//
// Missing YAML files are skipped so env-only deployments (containers) work;
// validation still catches anything left unset.
func Load(dir string) (*Config, error) {
	k := koanf.New(".")

	for _, name := range ConfigFiles {
		path := filepath.Join(dir, name)
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if isNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// Env overrides use "." as the nesting delimiter after the prefix:
	// GENAI_DATABASE.HOST -> database.host.
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	if err := cfg.Model.Validate(); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := cfg.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("validating observability config: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills optional blocks the YAML files may omit.
func applyDefaults(cfg *Config) {
	if cfg.Observability == nil {
		cfg.Observability = DefaultObservabilityConfig()
	}

	// Service identity is fixed; only the environment label follows config.
	cfg.Observability.ServiceName = "genai-service"
	cfg.Observability.Environment = cfg.Primary.Env

	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = 3600
	}
	if cfg.Cache.Prefix == "" {
		cfg.Cache.Prefix = "genai:completion"
	}

	if cfg.RateLimit.RequestsPerMinute <= 0 {
		cfg.RateLimit.RequestsPerMinute = 60
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = 10
	}

	if cfg.Retention.CompletionDays <= 0 {
		cfg.Retention.CompletionDays = 30
	}
	if cfg.Retention.ReportSchedule == "" {
		// Mondays at 08:00.
		cfg.Retention.ReportSchedule = "0 8 * * 1"
	}
}

func isNotExist(err error) bool {
	// koanf's file provider wraps os.Open errors with %w, so the original
	// fs.ErrNotExist is still reachable through the chain.
	return errors.Is(err, fs.ErrNotExist)
}
