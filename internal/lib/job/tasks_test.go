package job

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerateCompletionTask(t *testing.T) {
	id := uuid.New()

	task, err := NewGenerateCompletionTask(id)
	require.NoError(t, err)
	assert.Equal(t, TaskGenerateCompletion, task.Type())

	var payload GenerateCompletionPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, id, payload.CompletionID)
}

func TestMaintenanceTasks(t *testing.T) {
	report, err := NewUsageReportTask()
	require.NoError(t, err)
	assert.Equal(t, TaskUsageReport, report.Type())

	purge, err := NewPurgeCompletionsTask()
	require.NoError(t, err)
	assert.Equal(t, TaskPurgeCompletions, purge.Type())
}
