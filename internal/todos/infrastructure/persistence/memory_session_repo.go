package persistence

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/todos/internal/todos/domain/session"
)

// MemorySessionRepository keeps sessions for the lifetime of the process.
// Stored values are JSON round-tripped so callers never share memory with it.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemorySessionRepository creates an empty repository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string][]byte)}
}

// Load returns a copy of the stored session.
func (r *MemorySessionRepository) Load(_ context.Context, id string) (*session.Session, error) {
	if id == "" {
		return nil, session.ErrEmptySessionID
	}
	r.mu.RLock()
	data, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return decodeSession(data)
}

// Save stores a copy of s.
func (r *MemorySessionRepository) Save(_ context.Context, id string, s *session.Session) error {
	if id == "" {
		return session.ErrEmptySessionID
	}
	data, err := encodeSession(s)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.sessions[id] = data
	r.mu.Unlock()
	return nil
}

// Delete removes the session.
func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	if id == "" {
		return session.ErrEmptySessionID
	}
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

// Close is a no-op.
func (r *MemorySessionRepository) Close() error {
	return nil
}
