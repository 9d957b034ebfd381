package models

import (
	"errors"
	"fmt"
	"strconv"
)

// RecoverableError is implemented by enriched errors that carry structured
// context and remediation hints. Both the store and commands packages use this
// interface to avoid an import cycle.
type RecoverableError interface {
	error
	ErrorCode() string
	Context() map[string]string
	SuggestedAction() string
}

var (
	// ErrTaskNotFound matches any *TaskNotFoundError via errors.Is.
	ErrTaskNotFound = errors.New("task not found")
	// ErrMalformedLine matches any *LineError via errors.Is.
	ErrMalformedLine = errors.New("malformed task line")
)

// TaskNotFoundError is returned when no task carries the requested ID.
type TaskNotFoundError struct {
	ID uint64
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("Task with id %d not found", e.ID)
}
func (e *TaskNotFoundError) ErrorCode() string { return "TASK_NOT_FOUND" }
func (e *TaskNotFoundError) Context() map[string]string {
	return map[string]string{"task_id": strconv.FormatUint(e.ID, 10)}
}
func (e *TaskNotFoundError) SuggestedAction() string { return "tally list" }
func (e *TaskNotFoundError) Is(target error) bool    { return target == ErrTaskNotFound }

// Line issue reasons reported by the text decoder.
const (
	LineReasonFieldCount       = "field_count"
	LineReasonInvalidID        = "invalid_id"
	LineReasonInvalidCompleted = "invalid_completed"
)

// LineError describes one problem found while decoding a tasks file.
// Field count problems drop the record; invalid values are
// replaced with their zero value.
type LineError struct {
	Line   int
	Reason string
	Detail string
}

func (e *LineError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Reason, e.Detail)
}
func (e *LineError) ErrorCode() string { return "MALFORMED_LINE" }
func (e *LineError) Context() map[string]string {
	return map[string]string{
		"line":   strconv.Itoa(e.Line),
		"reason": e.Reason,
		"detail": e.Detail,
	}
}
func (e *LineError) SuggestedAction() string {
	return "fix or remove the line, or rerun without --strict to skip it"
}
func (e *LineError) Is(target error) bool { return target == ErrMalformedLine }

// Dropped reports whether the record was discarded rather than defaulted.
func (e *LineError) Dropped() bool {
	return e.Reason == LineReasonFieldCount
}
