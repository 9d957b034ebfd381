package actions

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/tally/internal/models"
	"github.com/dotcommander/tally/internal/store"
	"github.com/dotcommander/tally/internal/tasks"
)

func setupFileBackend(t *testing.T) (*store.FileBackend, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tasks.txt")
	return store.NewFileBackend(path, false), path
}

func setupSQLiteBackend(t *testing.T) *store.SQLiteBackend {
	t.Helper()

	b, err := store.OpenSQLite(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestTaskAdd_PersistsSequentialIDs(t *testing.T) {
	b, path := setupFileBackend(t)
	ctx := context.Background()

	first, err := TaskAdd(ctx, b, "Learn Go")
	require.NoError(t, err)
	assert.Equal(t, models.Task{ID: 1, Description: "Learn Go"}, first)

	second, err := TaskAdd(ctx, b, "Touch Grass")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.ID)
	assert.False(t, second.Completed)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,Learn Go,false\n2,Touch Grass,false\n", string(raw))
}

func TestTaskAdd_RefusesWhenIDsExhausted(t *testing.T) {
	b, path := setupFileBackend(t)
	content := []byte("18446744073709551615,last,false\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	_, err := TaskAdd(context.Background(), b, "one more")
	require.ErrorIs(t, err, tasks.ErrIDsExhausted)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, raw)
}

func TestTaskAdd_ContinuesAfterLoadedIDs(t *testing.T) {
	b, path := setupFileBackend(t)
	require.NoError(t, os.WriteFile(path, []byte("5,Buy milk,true\n"), 0o600))

	task, err := TaskAdd(context.Background(), b, "Buy bread")
	require.NoError(t, err)
	assert.Equal(t, uint64(6), task.ID)
}

func TestTaskList_MissingFileIsEmpty(t *testing.T) {
	b, path := setupFileBackend(t)

	list, err := TaskList(context.Background(), b)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoFileExists(t, path)
}

func TestTaskComplete(t *testing.T) {
	b, _ := setupFileBackend(t)
	ctx := context.Background()

	_, err := TaskAdd(ctx, b, "one")
	require.NoError(t, err)
	_, err = TaskAdd(ctx, b, "two")
	require.NoError(t, err)

	result, err := TaskComplete(ctx, b, 1)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.False(t, result.AlreadyCompleted)
	assert.True(t, result.Task.Completed)

	list, err := TaskList(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []models.Task{
		{ID: 1, Description: "one", Completed: true},
		{ID: 2, Description: "two"},
	}, list)

	again, err := TaskComplete(ctx, b, 1)
	require.NoError(t, err)
	assert.True(t, again.Found)
	assert.True(t, again.AlreadyCompleted)
}

func TestTaskComplete_UnknownIDLeavesFileUntouched(t *testing.T) {
	b, path := setupFileBackend(t)
	ctx := context.Background()

	_, err := TaskAdd(ctx, b, "one")
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	result, err := TaskComplete(ctx, b, 99)
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Equal(t, uint64(99), result.Task.ID)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTaskComplete_UnknownIDDoesNotCreateFile(t *testing.T) {
	b, path := setupFileBackend(t)

	result, err := TaskComplete(context.Background(), b, 1)
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.NoFileExists(t, path)
}

func TestActions_SQLiteBackend(t *testing.T) {
	b := setupSQLiteBackend(t)
	ctx := context.Background()

	_, err := TaskAdd(ctx, b, "with, comma")
	require.NoError(t, err)
	_, err = TaskAdd(ctx, b, "second")
	require.NoError(t, err)

	result, err := TaskComplete(ctx, b, 2)
	require.NoError(t, err)
	require.True(t, result.Found)

	list, err := TaskList(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []models.Task{
		{ID: 1, Description: "with, comma"},
		{ID: 2, Description: "second", Completed: true},
	}, list)
}

type failingSaveBackend struct {
	store.Backend
}

func (failingSaveBackend) Save(context.Context, *tasks.Store) error {
	return errors.New("disk full")
}

func TestTaskAdd_SurfacesSaveFailure(t *testing.T) {
	b, _ := setupFileBackend(t)

	_, err := TaskAdd(context.Background(), failingSaveBackend{Backend: b}, "lost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save tasks: disk full")
}

func TestTaskList_StrictModeFailsOnMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,ok,false\nbad line\n"), 0o600))

	_, err := TaskList(context.Background(), store.NewFileBackend(path, true))
	require.ErrorIs(t, err, models.ErrMalformedLine)

	list, err := TaskList(context.Background(), store.NewFileBackend(path, false))
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
