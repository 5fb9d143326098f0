package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/todos/internal/todos/domain/session"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "todos:session:"

// RedisSessionRepository stores sessions as JSON strings in Redis.
// Keys are namespaced as todos:session:{id}.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionRepository wraps client. A zero ttl keeps sessions forever.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, ttl: ttl}
}

// OpenRedisSessionRepository connects to url and verifies the connection.
func OpenRedisSessionRepository(ctx context.Context, url string, ttl time.Duration) (*RedisSessionRepository, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisSessionRepository(client, ttl), nil
}

func (r *RedisSessionRepository) key(id string) string {
	return redisKeyPrefix + id
}

// Load returns session.ErrSessionNotFound when the key is missing.
func (r *RedisSessionRepository) Load(ctx context.Context, id string) (*session.Session, error) {
	if id == "" {
		return nil, session.ErrEmptySessionID
	}
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrSessionNotFound
		}
		return nil, err
	}
	return decodeSession(data)
}

// Save overwrites the session and refreshes its ttl.
func (r *RedisSessionRepository) Save(ctx context.Context, id string, s *session.Session) error {
	if id == "" {
		return session.ErrEmptySessionID
	}
	data, err := encodeSession(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(id), data, r.ttl).Err()
}

// Delete removes the session key.
func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return session.ErrEmptySessionID
	}
	return r.client.Del(ctx, r.key(id)).Err()
}

// Close closes the client.
func (r *RedisSessionRepository) Close() error {
	return r.client.Close()
}
