// Package tasks holds the in-memory task collection.
//
// A Store is owned by the caller and passed by pointer; it does no I/O and no
// locking. Persistence lives in the store package.
package tasks

import (
	"errors"
	"math"

	"github.com/dotcommander/tally/internal/models"
)

// ErrIDsExhausted is returned by Add once math.MaxUint64 has been assigned.
var ErrIDsExhausted = errors.New("no task ids left")

// Store is an insertion-ordered list of tasks plus the next ID to assign.
// nextID is always greater than every ID in tasks. Once math.MaxUint64 has
// been used no greater ID exists; nextID is then 0 and Add refuses.
type Store struct {
	tasks  []models.Task
	nextID uint64
}

// New returns an empty store whose first task gets ID 1.
func New() *Store {
	return &Store{nextID: 1}
}

// Restore rebuilds a store from persisted records, keeping their order.
// The counter becomes max(max ID + 1, statedNext, 1) so new tasks never
// collide with loaded ones. A loaded ID of math.MaxUint64 leaves the store
// exhausted.
func Restore(loaded []models.Task, statedNext uint64) *Store {
	s := &Store{
		tasks:  make([]models.Task, len(loaded)),
		nextID: 1,
	}
	copy(s.tasks, loaded)

	maxID := s.MaxID()
	if maxID == math.MaxUint64 {
		s.nextID = 0
		return s
	}
	if maxID+1 > s.nextID {
		s.nextID = maxID + 1
	}
	if statedNext > s.nextID {
		s.nextID = statedNext
	}
	return s
}

// Add appends a task with the next ID and returns it. The description is
// stored as given. It returns ErrIDsExhausted when no unused ID is left.
func (s *Store) Add(description string) (models.Task, error) {
	if s.nextID == 0 {
		return models.Task{}, ErrIDsExhausted
	}
	task := models.Task{
		ID:          s.nextID,
		Description: description,
	}
	s.tasks = append(s.tasks, task)
	// Wraps to 0 after math.MaxUint64, which marks the store exhausted.
	s.nextID++
	return task, nil
}

// List returns a copy of all tasks in insertion order.
func (s *Store) List() []models.Task {
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the first task with the given ID.
func (s *Store) Get(id uint64) (models.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return models.Task{}, false
}

// Complete marks the first task with the given ID as completed.
// changed is false when the task was already completed. An unknown ID returns
// *models.TaskNotFoundError and leaves the store untouched.
func (s *Store) Complete(id uint64) (task models.Task, changed bool, err error) {
	i := s.index(id)
	if i < 0 {
		return models.Task{}, false, &models.TaskNotFoundError{ID: id}
	}
	if !s.tasks[i].Completed {
		s.tasks[i].Completed = true
		changed = true
	}
	return s.tasks[i], changed, nil
}

// NextID is the ID the next Add will assign, or 0 when IDs are exhausted.
func (s *Store) NextID() uint64 { return s.nextID }

// Len is the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// MaxID is the highest task ID, or 0 for an empty store.
func (s *Store) MaxID() uint64 {
	var maxID uint64
	for _, t := range s.tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID
}

func (s *Store) index(id uint64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
