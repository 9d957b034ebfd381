package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := InitDBWithPath(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInitDB(t *testing.T) {
	testDBPath := filepath.Join(t.TempDir(), "nested", "test.db")

	db, err := InitDBWithPath(context.Background(), testDBPath)
	require.NoError(t, err)
	defer db.Close()

	_, statErr := os.Stat(testDBPath)
	require.NoError(t, statErr, "database file was not created")

	for _, table := range []string{"tasks", "meta"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s was not created", table)
	}

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)
}

func TestSchemaVersion_UpToDateAfterInit(t *testing.T) {
	db := setupTestDB(t)

	current, latest, err := SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), latest)
	assert.Equal(t, latest, current)
}

func TestNormalizeSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:/tmp/x.db?mode=rwc", normalizeSQLiteDSN("/tmp/x.db"))
	assert.Equal(t, "file::memory:?cache=shared", normalizeSQLiteDSN(":memory:"))
	assert.Equal(t, "file:custom.db?mode=ro", normalizeSQLiteDSN("file:custom.db?mode=ro"))
}
