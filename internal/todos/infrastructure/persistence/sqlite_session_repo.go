package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/todos/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/todos/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/todos/internal/todos/domain/session"
)

// SQLiteSessionRepository stores sessions as JSON rows in SQLite.
type SQLiteSessionRepository struct {
	dbConn *sql.DB
}

// NewSQLiteSessionRepository migrates dbConn to the current schema.
func NewSQLiteSessionRepository(ctx context.Context, dbConn *sql.DB) (*SQLiteSessionRepository, error) {
	if err := migrations.RunSQLiteMigrations(ctx, dbConn); err != nil {
		return nil, fmt.Errorf("failed to migrate session store: %w", err)
	}
	return &SQLiteSessionRepository{dbConn: dbConn}, nil
}

// OpenSQLiteSessionRepository opens the database at path and prepares it.
func OpenSQLiteSessionRepository(ctx context.Context, path string) (*SQLiteSessionRepository, error) {
	dbConn, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	repo, err := NewSQLiteSessionRepository(ctx, dbConn)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	return repo, nil
}

// Load returns session.ErrSessionNotFound when id was never saved.
func (r *SQLiteSessionRepository) Load(ctx context.Context, id string) (*session.Session, error) {
	if id == "" {
		return nil, session.ErrEmptySessionID
	}

	var state string
	err := r.dbConn.QueryRowContext(ctx, `SELECT state FROM sessions WHERE id = ?`, id).Scan(&state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, err
	}
	return decodeSession([]byte(state))
}

// Save upserts the session.
func (r *SQLiteSessionRepository) Save(ctx context.Context, id string, s *session.Session) error {
	if id == "" {
		return session.ErrEmptySessionID
	}
	data, err := encodeSession(s)
	if err != nil {
		return err
	}

	_, err = r.dbConn.ExecContext(ctx, `
		INSERT INTO sessions (id, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		id, string(data), s.UpdatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes the session. Deleting a missing session is not an error.
func (r *SQLiteSessionRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return session.ErrEmptySessionID
	}
	_, err := r.dbConn.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// Close closes the database.
func (r *SQLiteSessionRepository) Close() error {
	return r.dbConn.Close()
}
