package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/todos/internal/todos/domain/session"
	"github.com/felixgeelhaar/todos/internal/todos/infrastructure/persistence"
	"github.com/felixgeelhaar/todos/pkg/config"
)

// newSessionRepository creates the session repository for the configured
// driver. In development an unreachable Redis falls back to memory.
func newSessionRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Repository, error) {
	switch cfg.SessionDriver {
	case config.SessionDriverSQLite:
		repo, err := persistence.OpenSQLiteSessionRepository(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		logger.Debug("using SQLite sessions", "path", cfg.SQLitePath)
		return repo, nil

	case config.SessionDriverRedis:
		repo, err := persistence.OpenRedisSessionRepository(ctx, cfg.RedisURL, 0)
		if err != nil {
			if !cfg.IsDevelopment() {
				return nil, err
			}
			logger.Warn("Redis not available, sessions will not outlive the process", "error", err)
			return persistence.NewMemorySessionRepository(), nil
		}
		logger.Debug("using Redis sessions")
		return repo, nil

	case config.SessionDriverMemory:
		return persistence.NewMemorySessionRepository(), nil

	default:
		return nil, fmt.Errorf("unsupported session driver: %s", cfg.SessionDriver)
	}
}
