package cache

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/rwidyatama/go-genai-service/internal/config"
)

func TestFingerprintIsStable(t *testing.T) {
	a := Fingerprint("gpt-4o-mini", "hello", 0, 256)
	b := Fingerprint("gpt-4o-mini", "hello", 0, 256)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprintChangesWithEveryParameter(t *testing.T) {
	base := Fingerprint("gpt-4o-mini", "hello", 0, 256)

	assert.NotEqual(t, base, Fingerprint("gpt-4o", "hello", 0, 256))
	assert.NotEqual(t, base, Fingerprint("gpt-4o-mini", "hello!", 0, 256))
	assert.NotEqual(t, base, Fingerprint("gpt-4o-mini", "hello", 0.5, 256))
	assert.NotEqual(t, base, Fingerprint("gpt-4o-mini", "hello", 0, 512))
}

func TestFingerprintSeparatesFields(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide across the field boundary.
	assert.NotEqual(t,
		Fingerprint("ab", "c", 0, 1),
		Fingerprint("a", "bc", 0, 1),
	)
}

func TestDisabledManagerAlwaysMisses(t *testing.T) {
	logger := zerolog.Nop()
	cfg := &config.Config{
		Cache: config.CacheConfig{Enabled: true, TTLSeconds: 60, Prefix: "genai:completion"},
	}

	// Enabled config but no redis client: lookups still miss.
	m := NewManager(cfg, nil, &logger)

	assert.False(t, m.Enabled())

	entry, ok := m.Get(context.Background(), Fingerprint("m", "p", 0, 1))
	assert.False(t, ok)
	assert.Nil(t, entry)

	// Set and Invalidate must be safe no-ops.
	m.Set(context.Background(), "fp", Entry{Response: "x"})
	assert.NoError(t, m.Invalidate(context.Background(), "fp"))
}
