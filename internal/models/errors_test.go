package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskNotFoundError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("complete: %w", &TaskNotFoundError{ID: 9})
	require.ErrorIs(t, err, ErrTaskNotFound)
	require.Equal(t, "complete: Task with id 9 not found", err.Error())

	var rec RecoverableError
	require.True(t, errors.As(err, &rec))
	require.Equal(t, "TASK_NOT_FOUND", rec.ErrorCode())
	require.Equal(t, "9", rec.Context()["task_id"])
}

func TestLineError_DroppedAndMessage(t *testing.T) {
	dropped := &LineError{Line: 3, Reason: LineReasonFieldCount, Detail: "got 2 fields, want 3"}
	require.True(t, dropped.Dropped())
	require.Equal(t, "line 3: field_count: got 2 fields, want 3", dropped.Error())
	require.ErrorIs(t, dropped, ErrMalformedLine)

	defaulted := &LineError{Line: 4, Reason: LineReasonInvalidID}
	require.False(t, defaulted.Dropped())
	require.Equal(t, "line 4: invalid_id", defaulted.Error())
}
