package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rwidyatama/go-genai-service/internal/config"
	"github.com/rwidyatama/go-genai-service/internal/domain"
	"github.com/rwidyatama/go-genai-service/internal/server"
)

func newTestCompletionService() *CompletionService {
	return &CompletionService{
		server: &server.Server{
			Config: &config.Config{
				Model: config.ModelConfig{
					Name:                 "gpt-4o-mini",
					Temperature:          0.7,
					MaxTokens:            1024,
					PromptPricePer1K:     "0.00015",
					CompletionPricePer1K: "0.0006",
				},
			},
		},
	}
}

func TestNewCompletionAppliesDefaults(t *testing.T) {
	svc := newTestCompletionService()

	c := svc.newCompletion(CompletionInput{Prompt: "hello", RequestedBy: "user_1"})

	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, "gpt-4o-mini", c.Model)
	assert.Equal(t, 0.7, c.Temperature)
	assert.Equal(t, 1024, c.MaxTokens)
	assert.Equal(t, domain.StatusPending, c.Status)
	assert.Equal(t, "user_1", c.RequestedBy)
	assert.True(t, c.Cost.IsZero())
}

func TestNewCompletionKeepsExplicitParameters(t *testing.T) {
	svc := newTestCompletionService()
	zero := 0.0

	c := svc.newCompletion(CompletionInput{
		Prompt:      "hello",
		Model:       "gpt-4o",
		Temperature: &zero,
		MaxTokens:   64,
	})

	assert.Equal(t, "gpt-4o", c.Model)
	// Explicit zero temperature must not fall back to the default.
	assert.Equal(t, 0.0, c.Temperature)
	assert.Equal(t, 64, c.MaxTokens)
}

func TestTokenCost(t *testing.T) {
	rate := decimal.RequireFromString("0.0006")

	tests := []struct {
		tokens int
		want   string
	}{
		{0, "0"},
		{1000, "0.0006"},
		{1500, "0.0009"},
		{333, "0.0001998"},
	}

	for _, tt := range tests {
		got := tokenCost(tt.tokens, rate)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
			"tokens=%d got=%s want=%s", tt.tokens, got, tt.want)
	}
}

func TestTokenCostExactness(t *testing.T) {
	// 37 tokens at 0.00015/1K: exact decimal arithmetic, no float drift.
	got := tokenCost(37, decimal.RequireFromString("0.00015"))
	assert.Equal(t, "0.00000555", got.String())
}

func TestIsClaimMiss(t *testing.T) {
	// Gone or already-claimed rows are dropped silently; infrastructure
	// errors are not, so the task gets redelivered instead of acked with
	// the record stuck in pending.
	assert.True(t, isClaimMiss(pgx.ErrNoRows))
	assert.True(t, isClaimMiss(fmt.Errorf("claim completion: %w", pgx.ErrNoRows)))

	assert.False(t, isClaimMiss(errors.New("connection reset by peer")))
	assert.False(t, isClaimMiss(context.DeadlineExceeded))
	assert.False(t, isClaimMiss(&pgconn.PgError{Code: "57P01", Message: "terminating connection"}))
}
