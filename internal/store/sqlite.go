package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dotcommander/tally/internal/models"
	"github.com/dotcommander/tally/internal/tasks"
)

const nextIDKey = "next_id"

// SQLiteBackend keeps tasks in a local SQLite database. Insertion order is
// the seq column; the next ID lives in the meta table.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := InitDBWithPath(context.Background(), path)
	if err != nil {
		return nil, err
	}
	return &SQLiteBackend{db: db, path: path}, nil
}

// Path is the database location.
func (b *SQLiteBackend) Path() string { return b.path }

// Load reads every task in insertion order.
func (b *SQLiteBackend) Load(ctx context.Context) (*tasks.Store, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT id, description, completed FROM tasks ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var loaded []models.Task
	for rows.Next() {
		var (
			id   int64
			task models.Task
		)
		if err := rows.Scan(&id, &task.Description, &task.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		task.ID = uint64(id) //nolint:gosec // G115: ids are written from uint64 values
		loaded = append(loaded, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	var next int64
	err = b.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, nextIDKey).Scan(&next)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query next id: %w", err)
	}

	return tasks.Restore(loaded, uint64(next)), nil //nolint:gosec // G115: next_id is never negative
}

// Save replaces all rows and the stored next ID in one transaction.
func (b *SQLiteBackend) Save(ctx context.Context, s *tasks.Store) error {
	return Transact(ctx, b.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return fmt.Errorf("failed to clear tasks: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO tasks (id, description, completed) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, t := range s.List() {
			if _, err := stmt.ExecContext(ctx, int64(t.ID), t.Description, t.Completed); err != nil { //nolint:gosec // G115
				return fmt.Errorf("failed to insert task %d: %w", t.ID, err)
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, nextIDKey, int64(s.NextID())) //nolint:gosec // G115
		if err != nil {
			return fmt.Errorf("failed to store next id: %w", err)
		}
		return nil
	})
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
