package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"database_config.yml": `
database:
  host: localhost
  port: 5432
  user: genai
  password: genai
  name: genai_test
  ssl_mode: disable
  max_open_conns: 10
  max_idle_conns: 2
  conn_max_lifetime: 300
  conn_max_idle_time: 60
redis:
  address: localhost:6379
`,
		"model_config.yml": `
primary:
  env: test
server:
  port: "8000"
  read_timeout: 30
  write_timeout: 120
  idle_timeout: 60
  cors_allowed_origins:
    - http://localhost:3000
auth:
  secret_key: sk_test_abc
model:
  provider: openai
  base_url: https://api.openai.com/v1
  api_key: test-key
  name: gpt-4o-mini
  temperature: 0.7
  max_tokens: 256
  request_timeout: 30
  prompt_price_per_1k: "0.00015"
  completion_price_per_1k: "0.0006"
`,
		"logging_config.yml": `
observability:
  service_name: anything
  environment: test
  logging:
    level: debug
    format: console
`,
	}

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfigDir(t))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Primary.Env)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "genai_test", cfg.Database.Name)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
	assert.Equal(t, 0.7, cfg.Model.Temperature)

	// Service identity is fixed regardless of what the YAML says.
	assert.Equal(t, "genai-service", cfg.Observability.ServiceName)
	assert.Equal(t, "test", cfg.Observability.Environment)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfigDir(t))
	require.NoError(t, err)

	assert.Equal(t, 3600, cfg.Cache.TTLSeconds)
	assert.Equal(t, "genai:completion", cfg.Cache.Prefix)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, 30, cfg.Retention.CompletionDays)
	assert.Equal(t, "0 8 * * 1", cfg.Retention.ReportSchedule)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GENAI_MODEL.NAME", "gpt-4o")
	t.Setenv("GENAI_DATABASE.PASSWORD", "from-env")

	cfg, err := Load(writeConfigDir(t))
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.Model.Name)
	assert.Equal(t, "from-env", cfg.Database.Password)
}

func TestLoadMissingRequiredField(t *testing.T) {
	dir := writeConfigDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "database_config.yml")))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	dir := writeConfigDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logging_config.yml"), []byte(`
observability:
  service_name: genai-service
  environment: test
  logging:
    level: loud
    format: console
`), 0o600))

	_, err := Load(dir)
	assert.ErrorContains(t, err, "invalid logging level")
}

func TestModelPrices(t *testing.T) {
	m := ModelConfig{
		PromptPricePer1K:     "0.00015",
		CompletionPricePer1K: "0.0006",
	}

	assert.True(t, m.PromptRate().Equal(decimal.RequireFromString("0.00015")))
	assert.True(t, m.CompletionRate().Equal(decimal.RequireFromString("0.0006")))

	// Empty prices mean free (zero).
	assert.True(t, ModelConfig{}.PromptRate().IsZero())
}

func TestModelValidateRejectsBadPrices(t *testing.T) {
	assert.Error(t, ModelConfig{PromptPricePer1K: "abc"}.Validate())
	assert.Error(t, ModelConfig{CompletionPricePer1K: "-0.1"}.Validate())
	assert.NoError(t, ModelConfig{PromptPricePer1K: "0.002"}.Validate())
}

func TestIsNotExist(t *testing.T) {
	_, openErr := os.Open(filepath.Join(t.TempDir(), "model_config.yml"))

	assert.True(t, isNotExist(openErr))
	assert.True(t, isNotExist(fmt.Errorf("read file: %w", fs.ErrNotExist)))

	assert.False(t, isNotExist(nil))
	assert.False(t, isNotExist(errors.New("yaml: line 3: mapping values are not allowed")))
	assert.False(t, isNotExist(fs.ErrPermission))
}
