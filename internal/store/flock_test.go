package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLockFile_BusyUntilReleased(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")

	held, err := lockFile(context.Background(), path)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = lockFile(ctx, path)
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlockFile(held)

	again, err := lockFile(context.Background(), path)
	require.NoError(t, err)
	unlockFile(again)
}

func TestUnlockFile_NilSafe(t *testing.T) {
	require.NotPanics(t, func() { unlockFile(nil) })
}
