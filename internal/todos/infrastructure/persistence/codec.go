package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/todos/internal/todos/domain/session"
)

func encodeSession(s *session.Session) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("nil session")
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return data, nil
}

func decodeSession(data []byte) (*session.Session, error) {
	var s session.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}
