// Package cache implements the completion response cache.
//
// Responses are cached in Redis under a SHA-256 fingerprint of the request
// parameters. Only deterministic requests (temperature zero) are worth
// caching; that decision lives in the service layer, this package just
// stores and retrieves. Redis failures degrade to cache misses so the
// service keeps working without Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rwidyatama/go-genai-service/internal/config"
	"github.com/rwidyatama/go-genai-service/internal/metrics"
)

// Entry is the cached portion of a completion: enough to serve a repeat
// request without calling the provider.
type Entry struct {
	Response         string `json:"response"`
	Model            string `json:"model"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

// Manager stores and retrieves completion cache entries.
type Manager struct {
	client  *redis.Client
	ttl     time.Duration
	prefix  string
	enabled bool
	logger  *zerolog.Logger
}

// NewManager builds a Manager from config. A nil redis client or a disabled
// cache config yields a manager whose lookups always miss.
func NewManager(cfg *config.Config, client *redis.Client, logger *zerolog.Logger) *Manager {
	return &Manager{
		client:  client,
		ttl:     time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		prefix:  cfg.Cache.Prefix,
		enabled: cfg.Cache.Enabled && client != nil,
		logger:  logger,
	}
}

// Enabled reports whether lookups can ever hit.
func (m *Manager) Enabled() bool {
	return m.enabled
}

// Fingerprint derives the cache key for a completion request. Every
// parameter that changes the output participates in the hash.
func Fingerprint(model, prompt string, temperature float64, maxTokens int) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(temperature, 'f', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(maxTokens)))
	return hex.EncodeToString(h.Sum(nil))
}

func (m *Manager) key(fingerprint string) string {
	return fmt.Sprintf("%s:%s", m.prefix, fingerprint)
}

// Get looks up a cached entry. The second return value reports a hit.
func (m *Manager) Get(ctx context.Context, fingerprint string) (*Entry, bool) {
	if !m.enabled {
		return nil, false
	}

	raw, err := m.client.Get(ctx, m.key(fingerprint)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			m.logger.Warn().Err(err).Msg("cache lookup failed, treating as miss")
		}
		metrics.ObserveCacheLookup(false)
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		m.logger.Warn().Err(err).Msg("corrupt cache entry, treating as miss")
		metrics.ObserveCacheLookup(false)
		return nil, false
	}

	metrics.ObserveCacheLookup(true)
	return &entry, true
}

// Set stores an entry under the fingerprint with the configured TTL.
// Failures are logged and swallowed; caching is best effort.
func (m *Manager) Set(ctx context.Context, fingerprint string, entry Entry) {
	if !m.enabled {
		return
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		m.logger.Warn().Err(err).Msg("failed to marshal cache entry")
		return
	}

	if err := m.client.Set(ctx, m.key(fingerprint), raw, m.ttl).Err(); err != nil {
		m.logger.Warn().Err(err).Msg("failed to store cache entry")
	}
}

// Invalidate removes a single entry.
func (m *Manager) Invalidate(ctx context.Context, fingerprint string) error {
	if !m.enabled {
		return nil
	}
	return m.client.Del(ctx, m.key(fingerprint)).Err()
}
