package models

// Task is a single to-do entry.
//
// IDs are assigned by the task store starting at 1. Completion is one-way:
// once Completed is true nothing in tally sets it back.
type Task struct {
	ID          uint64 `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}
