// Package domain holds the core entities shared across the repository,
// service, and handler layers.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompletionStatus tracks a completion through its lifecycle.
// Transitions: pending -> processing -> completed | failed.
type CompletionStatus string

const (
	StatusPending    CompletionStatus = "pending"
	StatusProcessing CompletionStatus = "processing"
	StatusCompleted  CompletionStatus = "completed"
	StatusFailed     CompletionStatus = "failed"
)

// Valid reports whether s is a known status value.
func (s CompletionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// PromptTemplate is a reusable, named prompt body with optional per-template
// model parameter overrides. The body uses Go text/template syntax.
type PromptTemplate struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Body        string    `json:"body"`

	// Model parameter overrides; nil means "use the service default".
	Model       *string  `json:"model"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Completion is one generation request and its outcome. Every request is
// persisted, including cached ones (with CacheHit set and zero cost).
type Completion struct {
	ID         uuid.UUID  `json:"id"`
	TemplateID *uuid.UUID `json:"template_id"`

	Prompt   string  `json:"prompt"`
	Response *string `json:"response"`

	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`

	Status        CompletionStatus `json:"status"`
	FailureReason *string          `json:"failure_reason"`

	PromptTokens     int             `json:"prompt_tokens"`
	CompletionTokens int             `json:"completion_tokens"`
	Cost             decimal.Decimal `json:"cost"`
	LatencyMs        int64           `json:"latency_ms"`
	CacheHit         bool            `json:"cache_hit"`

	RequestedBy string    `json:"requested_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UsageSummary aggregates completion activity over a reporting window.
type UsageSummary struct {
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	TotalRequests    int64           `json:"total_requests"`
	CompletedCount   int64           `json:"completed_count"`
	FailedCount      int64           `json:"failed_count"`
	CacheHits        int64           `json:"cache_hits"`
	PromptTokens     int64           `json:"prompt_tokens"`
	CompletionTokens int64           `json:"completion_tokens"`
	TotalCost        decimal.Decimal `json:"total_cost"`
}
