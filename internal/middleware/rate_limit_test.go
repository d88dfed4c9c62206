package middleware

import (
	"fmt"
	"testing"

	"golang.org/x/time/rate"

	"github.com/stretchr/testify/assert"
)

func TestAllowFallbackRespectsBurst(t *testing.T) {
	r := &RateLimitMiddleware{fallback: make(map[string]*rate.Limiter)}

	// Burst allows the first requests through, then the bucket is empty
	// (refill at 60/min is too slow to matter within this test).
	for i := 0; i < 3; i++ {
		assert.True(t, r.allowFallback("client-a", 60, 3), "request %d", i)
	}
	assert.False(t, r.allowFallback("client-a", 60, 3))
}

func TestAllowFallbackIsPerClient(t *testing.T) {
	r := &RateLimitMiddleware{fallback: make(map[string]*rate.Limiter)}

	assert.True(t, r.allowFallback("client-a", 60, 1))
	assert.False(t, r.allowFallback("client-a", 60, 1))

	// A different client has its own bucket.
	assert.True(t, r.allowFallback("client-b", 60, 1))
}

func TestAllowFallbackBoundsMapGrowth(t *testing.T) {
	r := &RateLimitMiddleware{fallback: make(map[string]*rate.Limiter)}

	for i := 0; i < 10002; i++ {
		r.allowFallback(fmt.Sprintf("client-%d", i), 60, 1)
	}

	assert.LessOrEqual(t, len(r.fallback), 10001)
}
