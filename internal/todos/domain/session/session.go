// Package session holds the rendering-surface state that outlives a single
// CLI invocation: the draft, the edit marker, the filter and list visibility.
// Tasks are never part of a session; they are always re-read from the store.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/todos/internal/todos/domain/todo"
	"github.com/felixgeelhaar/todos/internal/todos/domain/value_objects"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptySessionID  = errors.New("session id cannot be empty")
)

// DefaultID is used when no session id is configured.
const DefaultID = "default"

// Session is the persisted controller state.
type Session struct {
	Draft       todo.Draft             `json:"draft"`
	EditingID   todo.ID                `json:"editing_id,omitempty"`
	Filter      value_objects.Priority `json:"filter,omitempty"`
	ListVisible bool                   `json:"list_visible"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// Repository persists sessions by id.
type Repository interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, id string, s *Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}
