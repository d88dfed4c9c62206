package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rwidyatama/go-genai-service/internal/domain"
	"github.com/rwidyatama/go-genai-service/internal/server"
)

type CompletionRepository struct {
	pool *pgxpool.Pool
}

func NewCompletionRepository(s *server.Server) *CompletionRepository {
	return &CompletionRepository{pool: s.DB.Pool}
}

// CompletionFilter narrows List results. A zero value lists everything,
// newest first, with the default page size.
type CompletionFilter struct {
	Status domain.CompletionStatus
	Limit  int
	Offset int
}

const defaultPageSize = 20

const completionColumns = `
	id, template_id, prompt, response, model, temperature, max_tokens,
	status, failure_reason, prompt_tokens, completion_tokens, cost,
	latency_ms, cache_hit, requested_by, created_at, updated_at`

func scanCompletion(row pgx.Row) (*domain.Completion, error) {
	var c domain.Completion
	err := row.Scan(
		&c.ID, &c.TemplateID, &c.Prompt, &c.Response, &c.Model,
		&c.Temperature, &c.MaxTokens, &c.Status, &c.FailureReason,
		&c.PromptTokens, &c.CompletionTokens, &c.Cost, &c.LatencyMs,
		&c.CacheHit, &c.RequestedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompletionRepository) Create(ctx context.Context, c *domain.Completion) error {
	query := `
		INSERT INTO completions (
			id, template_id, prompt, response, model, temperature, max_tokens,
			status, failure_reason, prompt_tokens, completion_tokens, cost,
			latency_ms, cache_hit, requested_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		c.ID, c.TemplateID, c.Prompt, c.Response, c.Model, c.Temperature,
		c.MaxTokens, c.Status, c.FailureReason, c.PromptTokens,
		c.CompletionTokens, c.Cost, c.LatencyMs, c.CacheHit, c.RequestedBy,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *CompletionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Completion, error) {
	query := `SELECT` + completionColumns + ` FROM completions WHERE id = $1`
	return scanCompletion(r.pool.QueryRow(ctx, query, id))
}

// List returns a page of completions together with the total count
// matching the filter.
func (r *CompletionRepository) List(ctx context.Context, filter CompletionFilter) ([]domain.Completion, int64, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	query := `SELECT` + completionColumns + `, COUNT(*) OVER() AS total
		FROM completions
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, string(filter.Status), limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		completions []domain.Completion
		total       int64
	)
	for rows.Next() {
		var c domain.Completion
		err := rows.Scan(
			&c.ID, &c.TemplateID, &c.Prompt, &c.Response, &c.Model,
			&c.Temperature, &c.MaxTokens, &c.Status, &c.FailureReason,
			&c.PromptTokens, &c.CompletionTokens, &c.Cost, &c.LatencyMs,
			&c.CacheHit, &c.RequestedBy, &c.CreatedAt, &c.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, err
		}
		completions = append(completions, c)
	}
	return completions, total, rows.Err()
}

func (r *CompletionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM completions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// MarkProcessing transitions a pending completion to processing. It
// reports pgx.ErrNoRows when the completion is gone or already picked
// up, which lets a redelivered task bail out instead of running twice.
func (r *CompletionRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE completions
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3`

	tag, err := r.pool.Exec(ctx, query, id, domain.StatusProcessing, domain.StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateResult writes the terminal state of a completion: the model
// response and token accounting on success, or the failure reason.
func (r *CompletionRepository) UpdateResult(ctx context.Context, c *domain.Completion) error {
	query := `
		UPDATE completions
		SET response = $2, status = $3, failure_reason = $4,
			prompt_tokens = $5, completion_tokens = $6, cost = $7,
			latency_ms = $8, cache_hit = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		c.ID, c.Response, c.Status, c.FailureReason, c.PromptTokens,
		c.CompletionTokens, c.Cost, c.LatencyMs, c.CacheHit,
	).Scan(&c.UpdatedAt)
}

// PurgeOlderThan deletes terminal completions created before the cutoff
// and returns how many rows were removed.
func (r *CompletionRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM completions
		WHERE created_at < $1 AND status IN ($2, $3)`

	tag, err := r.pool.Exec(ctx, query, cutoff, domain.StatusCompleted, domain.StatusFailed)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UsageSummary aggregates request, token, and cost totals over a window.
func (r *CompletionRepository) UsageSummary(ctx context.Context, from, to time.Time) (*domain.UsageSummary, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $3),
			COUNT(*) FILTER (WHERE status = $4),
			COUNT(*) FILTER (WHERE cache_hit),
			COALESCE(SUM(prompt_tokens), 0),
			COALESCE(SUM(completion_tokens), 0),
			COALESCE(SUM(cost), 0)
		FROM completions
		WHERE created_at >= $1 AND created_at < $2`

	summary := domain.UsageSummary{From: from, To: to}
	err := r.pool.QueryRow(ctx, query, from, to, domain.StatusCompleted, domain.StatusFailed).Scan(
		&summary.TotalRequests, &summary.CompletedCount, &summary.FailedCount,
		&summary.CacheHits, &summary.PromptTokens, &summary.CompletionTokens,
		&summary.TotalCost,
	)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
