package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// CompletionExecutor runs a persisted pending completion to completion.
// Implemented by the completion service.
type CompletionExecutor interface {
	Execute(ctx context.Context, completionID uuid.UUID) error
}

// UsageReporter aggregates usage and sends the report email.
// Implemented by the usage service.
type UsageReporter interface {
	SendReport(ctx context.Context) error
}

// RetentionPurger removes completions past the retention window.
// Implemented by the usage service.
type RetentionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Handler dependencies are injected after construction because the services
// that implement them are themselves built on top of the Server container
// that owns this JobService. InitHandlers must run before Start.
var (
	executor CompletionExecutor
	reporter UsageReporter
	purger   RetentionPurger
)

// InitHandlers wires the service-layer implementations into the task handlers.
func (j *JobService) InitHandlers(exec CompletionExecutor, rep UsageReporter, purge RetentionPurger) {
	executor = exec
	reporter = rep
	purger = purge
}

// handleGenerateCompletionTask processes an async completion request.
func (j *JobService) handleGenerateCompletionTask(ctx context.Context, t *asynq.Task) error {
	var p GenerateCompletionPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal completion payload: %w", err)
	}

	j.logger.Info().
		Str("completion_id", p.CompletionID.String()).
		Msg("processing async completion task")

	if executor == nil {
		return fmt.Errorf("completion executor not initialized")
	}

	if err := executor.Execute(ctx, p.CompletionID); err != nil {
		j.logger.Error().
			Str("completion_id", p.CompletionID.String()).
			Err(err).
			Msg("async completion failed")
		// Returning the error makes Asynq mark the task failed and retry.
		return err
	}

	j.logger.Info().
		Str("completion_id", p.CompletionID.String()).
		Msg("async completion finished")

	return nil
}

// handleUsageReportTask aggregates and emails the usage summary.
func (j *JobService) handleUsageReportTask(ctx context.Context, t *asynq.Task) error {
	if reporter == nil {
		return fmt.Errorf("usage reporter not initialized")
	}

	if err := reporter.SendReport(ctx); err != nil {
		j.logger.Error().Err(err).Msg("failed to send usage report")
		return err
	}

	j.logger.Info().Msg("usage report sent")
	return nil
}

// handlePurgeCompletionsTask deletes completions past the retention window.
func (j *JobService) handlePurgeCompletionsTask(ctx context.Context, t *asynq.Task) error {
	if purger == nil {
		return fmt.Errorf("retention purger not initialized")
	}

	deleted, err := purger.PurgeExpired(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("retention purge failed")
		return err
	}

	j.logger.Info().Int64("deleted", deleted).Msg("retention purge finished")
	return nil
}
