// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "genai",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "genai",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"method", "path"},
	)

	completions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "genai",
			Subsystem: "completions",
			Name:      "total",
			Help:      "Total number of completion requests by outcome.",
		},
		[]string{"model", "status"},
	)

	completionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "genai",
			Subsystem: "completions",
			Name:      "provider_duration_seconds",
			Help:      "Latency of upstream model provider calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"model"},
	)

	tokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "genai",
			Subsystem: "completions",
			Name:      "tokens_total",
			Help:      "Total tokens consumed, split by direction.",
		},
		[]string{"model", "direction"},
	)

	cacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "genai",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Completion cache lookups by result.",
		},
		[]string{"result"},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "genai",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		completions,
		completionDuration,
		tokens,
		cacheOps,
		rateLimited,
	)
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one handled HTTP request.
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveCompletion records a finished completion attempt.
func ObserveCompletion(model, status string) {
	completions.WithLabelValues(model, status).Inc()
}

// ObserveProviderLatency records the upstream call latency.
func ObserveProviderLatency(model string, duration time.Duration) {
	completionDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// ObserveTokens records token consumption for a completion.
func ObserveTokens(model string, promptTokens, completionTokens int) {
	tokens.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	tokens.WithLabelValues(model, "completion").Add(float64(completionTokens))
}

// ObserveCacheLookup records a cache hit or miss.
func ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheOps.WithLabelValues(result).Inc()
}

// ObserveRateLimited records a request rejected by the rate limiter.
func ObserveRateLimited() {
	rateLimited.Inc()
}
