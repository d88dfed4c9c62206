package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/rwidyatama/go-genai-service/internal/cache"
	"github.com/rwidyatama/go-genai-service/internal/domain"
	"github.com/rwidyatama/go-genai-service/internal/lib/job"
	"github.com/rwidyatama/go-genai-service/internal/lib/prompt"
	"github.com/rwidyatama/go-genai-service/internal/llm"
	"github.com/rwidyatama/go-genai-service/internal/metrics"
	"github.com/rwidyatama/go-genai-service/internal/repository"
	"github.com/rwidyatama/go-genai-service/internal/server"
)

// CompletionService orchestrates completion requests end to end: parameter
// resolution, cache lookups, provider calls, token cost accounting, and
// persistence. It also implements job.CompletionExecutor so async requests
// run through the exact same path as sync ones.
type CompletionService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewCompletionService(s *server.Server, repos *repository.Repositories) *CompletionService {
	return &CompletionService{server: s, repos: repos}
}

// CompletionInput carries a generation request into the service. Unset
// parameters fall back to the model config defaults (or the template's
// overrides when the request came through a template).
type CompletionInput struct {
	Prompt      string
	Model       string
	Temperature *float64
	MaxTokens   int
	TemplateID  *uuid.UUID
	RequestedBy string
}

// newCompletion resolves input against the configured defaults and builds
// the pending completion record.
func (s *CompletionService) newCompletion(input CompletionInput) *domain.Completion {
	modelCfg := s.server.Config.Model

	model := input.Model
	if model == "" {
		model = modelCfg.Name
	}

	temperature := modelCfg.Temperature
	if input.Temperature != nil {
		temperature = *input.Temperature
	}

	maxTokens := input.MaxTokens
	if maxTokens <= 0 {
		maxTokens = modelCfg.MaxTokens
	}

	return &domain.Completion{
		ID:          uuid.New(),
		TemplateID:  input.TemplateID,
		Prompt:      input.Prompt,
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Status:      domain.StatusPending,
		Cost:        decimal.Zero,
		RequestedBy: input.RequestedBy,
	}
}

// Generate runs a completion synchronously. The record is persisted whatever
// the outcome; on provider failure the stored completion is marked failed
// and the provider error is returned for the error handler to translate.
func (s *CompletionService) Generate(ctx context.Context, input CompletionInput) (*domain.Completion, error) {
	completion := s.newCompletion(input)

	runErr := s.run(ctx, completion)

	if err := s.repos.Completion.Create(ctx, completion); err != nil {
		return nil, err
	}

	if runErr != nil {
		return nil, runErr
	}
	return completion, nil
}

// GenerateAsync persists a pending completion and enqueues it for the
// background worker. The returned record has status pending; clients poll
// GET /v1/completions/:id for the result.
func (s *CompletionService) GenerateAsync(ctx context.Context, input CompletionInput) (*domain.Completion, error) {
	completion := s.newCompletion(input)

	if err := s.repos.Completion.Create(ctx, completion); err != nil {
		return nil, err
	}

	task, err := job.NewGenerateCompletionTask(completion.ID)
	if err != nil {
		return nil, err
	}
	info, err := s.server.Job.Client.EnqueueContext(ctx, task)
	if err != nil {
		// The record stays pending; a failed enqueue is retryable by the
		// client without losing the audit trail.
		return nil, err
	}

	s.server.Logger.Info().
		Str("completion_id", completion.ID.String()).
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("completion enqueued")

	return completion, nil
}

// Execute implements job.CompletionExecutor. MarkProcessing acts as the
// claim: when the row is gone or already claimed the task is dropped
// without error so Asynq redeliveries stay idempotent.
func (s *CompletionService) Execute(ctx context.Context, completionID uuid.UUID) error {
	if err := s.repos.Completion.MarkProcessing(ctx, completionID); err != nil {
		if isClaimMiss(err) {
			s.server.Logger.Warn().
				Str("completion_id", completionID.String()).
				Msg("completion not claimable, skipping task")
			return nil
		}

		// Transient database errors must surface so the task is retried
		// and the record does not stay pending forever.
		return err
	}

	completion, err := s.repos.Completion.GetByID(ctx, completionID)
	if err != nil {
		return err
	}

	runErr := s.run(ctx, completion)

	if err := s.repos.Completion.UpdateResult(ctx, completion); err != nil {
		return err
	}

	// Terminal state is persisted; the provider error is logged, not
	// returned, so Asynq does not retry a completion already marked failed.
	if runErr != nil {
		s.server.Logger.Error().
			Str("completion_id", completionID.String()).
			Err(runErr).
			Msg("async completion failed at provider")
	}
	return nil
}

// isClaimMiss reports whether a MarkProcessing error means the row is gone
// or no longer pending. Only those are safe to drop; anything else (pool
// exhaustion, connection loss) must bubble up for a retry.
func isClaimMiss(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// GenerateFromTemplate renders a stored template with vars and generates a
// completion from the result. Template parameter overrides apply unless the
// input sets its own.
func (s *CompletionService) GenerateFromTemplate(ctx context.Context, templateID uuid.UUID, vars map[string]any, input CompletionInput, async bool) (*domain.Completion, error) {
	tmpl, err := s.repos.Template.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	rendered, err := prompt.Render(tmpl.Body, vars)
	if err != nil {
		return nil, err
	}

	input.Prompt = rendered
	input.TemplateID = &tmpl.ID
	if input.Model == "" && tmpl.Model != nil {
		input.Model = *tmpl.Model
	}
	if input.Temperature == nil && tmpl.Temperature != nil {
		input.Temperature = tmpl.Temperature
	}
	if input.MaxTokens <= 0 && tmpl.MaxTokens != nil {
		input.MaxTokens = *tmpl.MaxTokens
	}

	if async {
		return s.GenerateAsync(ctx, input)
	}
	return s.Generate(ctx, input)
}

func (s *CompletionService) GetCompletion(ctx context.Context, id uuid.UUID) (*domain.Completion, error) {
	return s.repos.Completion.GetByID(ctx, id)
}

func (s *CompletionService) ListCompletions(ctx context.Context, filter repository.CompletionFilter) ([]domain.Completion, int64, error) {
	return s.repos.Completion.List(ctx, filter)
}

func (s *CompletionService) DeleteCompletion(ctx context.Context, id uuid.UUID) error {
	return s.repos.Completion.Delete(ctx, id)
}

// run takes a completion through cache lookup and the provider call,
// filling in the result fields and terminal status. It does not persist.
func (s *CompletionService) run(ctx context.Context, c *domain.Completion) error {
	// Only deterministic requests are cacheable; sampled output differs
	// per call and caching it would pin one arbitrary response.
	cacheable := c.Temperature == 0 && s.server.Cache.Enabled()
	fingerprint := cache.Fingerprint(c.Model, c.Prompt, c.Temperature, c.MaxTokens)

	if cacheable {
		if entry, ok := s.server.Cache.Get(ctx, fingerprint); ok {
			c.Response = &entry.Response
			c.Model = entry.Model
			c.PromptTokens = entry.PromptTokens
			c.CompletionTokens = entry.CompletionTokens
			c.Cost = decimal.Zero
			c.CacheHit = true
			c.Status = domain.StatusCompleted

			metrics.ObserveCompletion(c.Model, string(domain.StatusCompleted))
			return nil
		}
	}

	result, err := s.server.LLM.Complete(ctx, llm.Request{
		Model:       c.Model,
		Prompt:      c.Prompt,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	})
	if err != nil {
		reason := err.Error()
		c.FailureReason = &reason
		c.Status = domain.StatusFailed

		metrics.ObserveCompletion(c.Model, string(domain.StatusFailed))
		return err
	}

	modelCfg := s.server.Config.Model
	c.Response = &result.Text
	c.Model = result.Model
	c.PromptTokens = result.PromptTokens
	c.CompletionTokens = result.CompletionTokens
	c.Cost = tokenCost(result.PromptTokens, modelCfg.PromptRate()).
		Add(tokenCost(result.CompletionTokens, modelCfg.CompletionRate()))
	c.LatencyMs = result.Latency.Milliseconds()
	c.Status = domain.StatusCompleted

	metrics.ObserveCompletion(c.Model, string(domain.StatusCompleted))
	metrics.ObserveProviderLatency(c.Model, result.Latency)
	metrics.ObserveTokens(c.Model, result.PromptTokens, result.CompletionTokens)

	if cacheable {
		s.server.Cache.Set(ctx, fingerprint, cache.Entry{
			Response:         result.Text,
			Model:            result.Model,
			PromptTokens:     result.PromptTokens,
			CompletionTokens: result.CompletionTokens,
		})
	}

	return nil
}

var per1K = decimal.NewFromInt(1000)

// tokenCost prices a token count at a per-1K-token rate using exact
// decimal arithmetic.
func tokenCost(tokens int, ratePer1K decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(tokens)).Mul(ratePer1K).Div(per1K)
}
