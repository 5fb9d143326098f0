// Package sqlite opens local SQLite databases with the pure Go driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/todos/internal/shared/infrastructure/security"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// pragmas applied to every connection:
//   - journal_mode=WAL: readers do not block the writer
//   - busy_timeout=5000: wait 5s on lock instead of failing immediately
//   - synchronous=NORMAL: durable enough for session state
const pragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

// DefaultPath returns ~/.todos/session.db, or ./.todos/session.db when the
// home directory is unknown.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".todos", "session.db")
}

// Open opens the database at path, creating its directory if needed.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = DefaultPath()
	}
	file, query, _ := strings.Cut(path, "?")
	file, err := security.ValidateFilePath(file)
	if err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}
	path = file
	if query != "" {
		path += "?" + query
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&"
	} else {
		dsn += "?"
	}
	dsn += pragmas

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	return db, nil
}
