package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionStatusValid(t *testing.T) {
	for _, s := range []CompletionStatus{StatusPending, StatusProcessing, StatusCompleted, StatusFailed} {
		assert.True(t, s.Valid(), string(s))
	}

	assert.False(t, CompletionStatus("").Valid())
	assert.False(t, CompletionStatus("done").Valid())
	assert.False(t, CompletionStatus("PENDING").Valid())
}
