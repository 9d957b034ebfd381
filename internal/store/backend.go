package store

import (
	"context"
	"fmt"

	"github.com/dotcommander/tally/internal/tasks"
)

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Backend loads and saves a whole task store.
type Backend interface {
	Load(ctx context.Context) (*tasks.Store, error)
	Save(ctx context.Context, s *tasks.Store) error
	Close() error
}

// Locker is implemented by backends that need exclusive access for a
// load-modify-save cycle.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// Options selects and configures a backend.
type Options struct {
	Kind   string
	Path   string
	Strict bool
}

// Open returns the backend named by opts.Kind. An empty kind means file.
func Open(opts Options) (Backend, error) {
	switch opts.Kind {
	case "", KindFile:
		return NewFileBackend(opts.Path, opts.Strict), nil
	case KindSQLite:
		b, err := OpenSQLite(opts.Path)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownBackend, opts.Kind, KindFile, KindSQLite)
	}
}
