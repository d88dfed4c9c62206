package job

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// TaskGenerateCompletion runs a pending completion against the provider.
	TaskGenerateCompletion = "completion:generate"

	// TaskUsageReport emails the periodic usage summary.
	TaskUsageReport = "report:usage"

	// TaskPurgeCompletions deletes completions past the retention window.
	TaskPurgeCompletions = "maintenance:purge_completions"
)

// GenerateCompletionPayload identifies the persisted completion to process.
type GenerateCompletionPayload struct {
	CompletionID uuid.UUID `json:"completion_id"`
}

// NewGenerateCompletionTask builds the async generation task.
//
// The generation itself is bounded by the provider timeout; the task
// timeout is generous on top of it to cover queue wait and DB writes.
func NewGenerateCompletionTask(completionID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(GenerateCompletionPayload{
		CompletionID: completionID,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskGenerateCompletion,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("critical"),
		asynq.Timeout(5*time.Minute),
	), nil
}

// NewUsageReportTask builds the usage report task.
func NewUsageReportTask() (*asynq.Task, error) {
	return asynq.NewTask(
		TaskUsageReport,
		nil,
		asynq.MaxRetry(2),
		asynq.Queue("low"),
		asynq.Timeout(time.Minute),
	), nil
}

// NewPurgeCompletionsTask builds the retention purge task.
func NewPurgeCompletionsTask() (*asynq.Task, error) {
	return asynq.NewTask(
		TaskPurgeCompletions,
		nil,
		asynq.MaxRetry(1),
		asynq.Queue("low"),
		asynq.Timeout(5*time.Minute),
	), nil
}
