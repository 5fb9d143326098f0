package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesDirectory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.PingContext(ctx))
	assert.FileExists(t, path)
}

func TestOpen_ExecAndQuery(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `CREATE TABLE test (id TEXT PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO test (id, name) VALUES (?, ?)`, "1", "Alice")
	require.NoError(t, err)

	var name string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT name FROM test WHERE id = ?`, "1").Scan(&name))
	assert.Equal(t, "Alice", name)

	var mode string
	require.NoError(t, db.QueryRowContext(ctx, `PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "session.db", filepath.Base(DefaultPath()))
	assert.Equal(t, ".todos", filepath.Base(filepath.Dir(DefaultPath())))
}

func TestOpen_RejectsShellCharacters(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "session;rm.db"))
	assert.ErrorContains(t, err, "invalid database path")
}
