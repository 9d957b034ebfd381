package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dotcommander/tally/internal/tasks"
)

// FileBackend keeps tasks in a comma-delimited text file, one task per line.
type FileBackend struct {
	path   string
	strict bool
}

// NewFileBackend returns a backend for the text file at path. With strict set,
// Load refuses files that contain malformed lines instead of skipping them.
func NewFileBackend(path string, strict bool) *FileBackend {
	return &FileBackend{path: path, strict: strict}
}

// Path is the tasks file location.
func (b *FileBackend) Path() string { return b.path }

// Load reads the tasks file. A missing file is an empty store.
func (b *FileBackend) Load(ctx context.Context) (*tasks.Store, error) {
	f, err := os.Open(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return tasks.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open tasks file: %w", err)
	}
	defer func() { _ = f.Close() }()

	s, issues, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", b.path, err)
	}

	if b.strict && len(issues) > 0 {
		errs := make([]error, len(issues))
		for i, issue := range issues {
			errs[i] = issue
		}
		return nil, fmt.Errorf("load %s: %w", b.path, errors.Join(errs...))
	}

	for _, issue := range issues {
		msg := "defaulted malformed task field"
		if issue.Dropped() {
			msg = "skipped malformed task line"
		}
		slog.WarnContext(ctx, msg,
			"path", b.path,
			"line", issue.Line,
			"reason", issue.Reason,
			"detail", issue.Detail,
		)
	}

	return s, nil
}

// Save replaces the tasks file. The new content is written to a temporary
// file in the same directory and renamed into place.
func (b *FileBackend) Save(_ context.Context, s *tasks.Store) (err error) {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create tasks directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := Encode(tmp, s); err != nil {
		return fmt.Errorf("save %s: %w", b.path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("replace %s: %w", b.path, err)
	}
	return nil
}

// Lock takes the advisory lock guarding this tasks file.
func (b *FileBackend) Lock(ctx context.Context) (func(), error) {
	f, err := lockFile(ctx, b.path)
	if err != nil {
		return nil, err
	}
	return func() { unlockFile(f) }, nil
}

// Close is a no-op; the file is only open during Load and Save.
func (b *FileBackend) Close() error { return nil }
