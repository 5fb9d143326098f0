package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/todos/internal/todos/domain/todo"
	"github.com/felixgeelhaar/todos/internal/todos/domain/value_objects"
	"github.com/felixgeelhaar/todos/internal/todos/infrastructure/httpstore/storetest"
	"github.com/felixgeelhaar/todos/internal/todos/infrastructure/persistence"
	"github.com/felixgeelhaar/todos/pkg/config"
	"github.com/felixgeelhaar/todos/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:                  "development",
		APIURL:                  apiURL,
		RequestTimeout:          5 * time.Second,
		IDStrategy:              config.IDStrategyClient,
		DescriptionField:        "todo",
		HideListWhileEditing:    true,
		CategoriesEnabled:       true,
		BreakerEnabled:          true,
		BreakerFailureThreshold: 5,
		BreakerTimeout:          time.Second,
		SessionDriver:           config.SessionDriverSQLite,
		SessionID:               "test",
		SQLitePath:              filepath.Join(t.TempDir(), "session.db"),
	}
}

func TestNewContainer_LocalMode(t *testing.T) {
	srv := storetest.New(t).Seed(todo.Todo{
		ID:          "1",
		Description: "wire it",
		Priority:    value_objects.PriorityHigh,
		Status:      value_objects.StatusToDo,
	})
	ctx := context.Background()

	c, err := NewContainer(ctx, testConfig(t, srv.BaseURL()), observability.Discard())
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Bus)
	assert.Same(t, c.Bus, c.EventPublisher)
	assert.IsType(t, &persistence.SQLiteSessionRepository{}, c.Sessions)

	require.NoError(t, c.Controller.Refresh(ctx))
	assert.Len(t, c.Controller.VisibleTasks(), 1)
	assert.Positive(t, c.Metrics.GetCounter(observability.MetricOperationTotal,
		observability.T("operation", "store.list"), observability.T("outcome", "ok"),
		observability.T("method", "GET")))
}

func TestNewContainer_RestoresSession(t *testing.T) {
	srv := storetest.New(t).Seed(todo.Todo{
		ID:          "1",
		Description: "edit me",
		Priority:    value_objects.PriorityLow,
		Status:      value_objects.StatusToDo,
	})
	ctx := context.Background()
	cfg := testConfig(t, srv.BaseURL())

	first, err := NewContainer(ctx, cfg, observability.Discard())
	require.NoError(t, err)
	_, err = first.Controller.BeginEdit(ctx, "1")
	require.NoError(t, err)
	first.Close()

	second, err := NewContainer(ctx, cfg, observability.Discard())
	require.NoError(t, err)
	defer second.Close()

	st := second.Controller.Snapshot()
	assert.Equal(t, todo.ID("1"), st.EditingID)
	assert.Equal(t, "edit me", st.Draft.Description)
}

func TestNewContainer_InvalidStoreURL(t *testing.T) {
	cfg := testConfig(t, "ftp://nowhere")

	_, err := NewContainer(context.Background(), cfg, observability.Discard())
	assert.Error(t, err)
}

func TestNewSessionRepository(t *testing.T) {
	ctx := context.Background()
	logger := observability.Discard()

	t.Run("memory", func(t *testing.T) {
		cfg := testConfig(t, "http://localhost:3001/todos")
		cfg.SessionDriver = config.SessionDriverMemory
		repo, err := newSessionRepository(ctx, cfg, logger)
		require.NoError(t, err)
		assert.IsType(t, &persistence.MemorySessionRepository{}, repo)
	})

	t.Run("redis unavailable in development falls back", func(t *testing.T) {
		cfg := testConfig(t, "http://localhost:3001/todos")
		cfg.SessionDriver = config.SessionDriverRedis
		cfg.RedisURL = "redis://127.0.0.1:1/0"
		repo, err := newSessionRepository(ctx, cfg, logger)
		require.NoError(t, err)
		assert.IsType(t, &persistence.MemorySessionRepository{}, repo)
	})

	t.Run("redis unavailable in production fails", func(t *testing.T) {
		cfg := testConfig(t, "http://localhost:3001/todos")
		cfg.AppEnv = "production"
		cfg.SessionDriver = config.SessionDriverRedis
		cfg.RedisURL = "redis://127.0.0.1:1/0"
		_, err := newSessionRepository(ctx, cfg, logger)
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := testConfig(t, "http://localhost:3001/todos")
		cfg.SessionDriver = "etcd"
		_, err := newSessionRepository(ctx, cfg, logger)
		assert.Error(t, err)
	})
}
