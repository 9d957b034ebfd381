package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/dotcommander/tally/internal/models"
	"github.com/dotcommander/tally/internal/store"
	"github.com/dotcommander/tally/internal/tasks"
)

// CompleteResult describes the outcome of TaskComplete.
// Found is false when no task has the requested ID; that is not an error.
type CompleteResult struct {
	Task             models.Task `json:"task"`
	Found            bool        `json:"found"`
	AlreadyCompleted bool        `json:"already_completed"`
}

// TaskAdd appends a task with the next ID and persists the store.
func TaskAdd(ctx context.Context, b store.Backend, description string) (models.Task, error) {
	var task models.Task
	err := mutate(ctx, b, func(s *tasks.Store) (bool, error) {
		added, err := s.Add(description)
		if err != nil {
			return false, err
		}
		task = added
		return true, nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// TaskList returns every task in insertion order.
func TaskList(ctx context.Context, b store.Backend) ([]models.Task, error) {
	s, err := b.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.List(), nil
}

// TaskComplete marks a task completed. The store is only written when the
// task changed.
func TaskComplete(ctx context.Context, b store.Backend, id uint64) (*CompleteResult, error) {
	result := &CompleteResult{}
	err := mutate(ctx, b, func(s *tasks.Store) (bool, error) {
		task, changed, err := s.Complete(id)
		if errors.Is(err, models.ErrTaskNotFound) {
			result.Task = models.Task{ID: id}
			return false, nil
		}
		if err != nil {
			return false, err
		}
		result.Task = task
		result.Found = true
		result.AlreadyCompleted = !changed
		return changed, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// mutate loads the store, applies fn and saves when fn reports a change.
// Backends that implement store.Locker hold their lock for the whole cycle.
func mutate(ctx context.Context, b store.Backend, fn func(s *tasks.Store) (changed bool, err error)) error {
	if locker, ok := b.(store.Locker); ok {
		unlock, err := locker.Lock(ctx)
		if err != nil {
			return err
		}
		defer unlock()
	}

	s, err := b.Load(ctx)
	if err != nil {
		return err
	}

	changed, err := fn(s)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := b.Save(ctx, s); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}
