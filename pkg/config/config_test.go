package config

import (
	"os"
	"testing"
	"time"

	"github.com/felixgeelhaar/todos/internal/shared/infrastructure/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnvVars clears all todos-related environment variables.
func clearEnvVars() {
	envVars := []string{
		"APP_ENV", "LOG_LEVEL", "LOG_FORMAT",
		"TODOS_API_URL", "TODOS_REQUEST_TIMEOUT", "TODOS_ID_STRATEGY", "TODOS_DESCRIPTION_FIELD",
		"TODOS_FORCE_TODO_STATUS", "TODOS_HIDE_LIST_WHILE_EDITING", "TODOS_CATEGORIES_ENABLED",
		"TODOS_BREAKER_ENABLED", "TODOS_BREAKER_FAILURE_THRESHOLD", "TODOS_BREAKER_TIMEOUT",
		"SESSION_DRIVER", "TODOS_SESSION_ID", "SQLITE_PATH", "REDIS_URL",
		"RABBITMQ_URL", "MCP_ADDR", "MCP_AUTH_TOKEN",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "warn", cfg.LogLevel)

	assert.Equal(t, "http://localhost:3001/todos", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, IDStrategyClient, cfg.IDStrategy)
	assert.False(t, cfg.ServerAssignsIDs())
	assert.Equal(t, "todo", cfg.DescriptionField)

	assert.False(t, cfg.ForceTodoStatus)
	assert.True(t, cfg.HideListWhileEditing)
	assert.True(t, cfg.CategoriesEnabled)

	assert.True(t, cfg.BreakerEnabled)
	assert.Equal(t, uint32(5), cfg.BreakerFailureThreshold)
	assert.Equal(t, 30*time.Second, cfg.BreakerTimeout)

	assert.Equal(t, SessionDriverSQLite, cfg.SessionDriver)
	assert.Equal(t, "default", cfg.SessionID)
	assert.Contains(t, cfg.SQLitePath, "session.db")
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, "127.0.0.1:8082", cfg.MCPAddr)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("TODOS_API_URL", "http://store.local/tasks")
	os.Setenv("TODOS_REQUEST_TIMEOUT", "2s")
	os.Setenv("TODOS_ID_STRATEGY", "server")
	os.Setenv("TODOS_DESCRIPTION_FIELD", "task")
	os.Setenv("TODOS_FORCE_TODO_STATUS", "true")
	os.Setenv("TODOS_CATEGORIES_ENABLED", "false")
	os.Setenv("TODOS_BREAKER_FAILURE_THRESHOLD", "2")
	os.Setenv("SESSION_DRIVER", "redis")
	os.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://store.local/tasks", cfg.APIURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.ServerAssignsIDs())
	assert.Equal(t, "task", cfg.DescriptionField)
	assert.True(t, cfg.ForceTodoStatus)
	assert.False(t, cfg.CategoriesEnabled)
	assert.Equal(t, uint32(2), cfg.BreakerFailureThreshold)
	assert.Equal(t, SessionDriverRedis, cfg.SessionDriver)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("TODOS_REQUEST_TIMEOUT", "soon")
	os.Setenv("TODOS_HIDE_LIST_WHILE_EDITING", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.HideListWhileEditing)
}

func TestLoad_NegativeBreakerThreshold(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("TODOS_BREAKER_FAILURE_THRESHOLD", "-3")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TODOS_BREAKER_FAILURE_THRESHOLD")
}

func TestLoad_DefaultSQLitePath(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, sqlite.DefaultPath(), cfg.SQLitePath)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			APIURL:                  "http://localhost:3001/todos",
			IDStrategy:              IDStrategyClient,
			DescriptionField:        "todo",
			SessionDriver:           SessionDriverMemory,
			BreakerEnabled:          true,
			BreakerFailureThreshold: 1,
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing url", func(c *Config) { c.APIURL = "" }},
		{"bad id strategy", func(c *Config) { c.IDStrategy = "random" }},
		{"bad description field", func(c *Config) { c.DescriptionField = "title" }},
		{"bad session driver", func(c *Config) { c.SessionDriver = "postgres" }},
		{"redis without url", func(c *Config) { c.SessionDriver = SessionDriverRedis }},
		{"zero threshold", func(c *Config) { c.BreakerFailureThreshold = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	assert.True(t, (&Config{AppEnv: "development"}).IsDevelopment())
	assert.False(t, (&Config{AppEnv: "production"}).IsDevelopment())
	assert.True(t, (&Config{AppEnv: "production"}).IsProduction())
}
