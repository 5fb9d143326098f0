package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/felixgeelhaar/todos/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/todos/internal/shared/infrastructure/database/sqlite"
	"github.com/joho/godotenv"
)

// Id strategies for new todos.
const (
	IDStrategyClient = "client"
	IDStrategyServer = "server"
)

// Session drivers.
const (
	SessionDriverSQLite = "sqlite"
	SessionDriverRedis  = "redis"
	SessionDriverMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// Task store
	APIURL           string
	RequestTimeout   time.Duration
	IDStrategy       string
	DescriptionField string

	// Variant behavior
	ForceTodoStatus      bool
	HideListWhileEditing bool
	CategoriesEnabled    bool

	// Circuit breaker
	BreakerEnabled          bool
	BreakerFailureThreshold uint32
	BreakerTimeout          time.Duration

	// Session
	SessionDriver string
	SessionID     string
	SQLitePath    string
	RedisURL      string

	// RabbitMQ
	RabbitMQURL string

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	threshold, err := convert.IntToUint32(getIntEnv("TODOS_BREAKER_FAILURE_THRESHOLD", 5))
	if err != nil {
		return nil, fmt.Errorf("invalid TODOS_BREAKER_FAILURE_THRESHOLD: %w", err)
	}

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "warn"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		APIURL:           getEnv("TODOS_API_URL", "http://localhost:3001/todos"),
		RequestTimeout:   getDurationEnv("TODOS_REQUEST_TIMEOUT", 10*time.Second),
		IDStrategy:       getEnv("TODOS_ID_STRATEGY", IDStrategyClient),
		DescriptionField: getEnv("TODOS_DESCRIPTION_FIELD", "todo"),

		ForceTodoStatus:      getBoolEnv("TODOS_FORCE_TODO_STATUS", false),
		HideListWhileEditing: getBoolEnv("TODOS_HIDE_LIST_WHILE_EDITING", true),
		CategoriesEnabled:    getBoolEnv("TODOS_CATEGORIES_ENABLED", true),

		BreakerEnabled:          getBoolEnv("TODOS_BREAKER_ENABLED", true),
		BreakerFailureThreshold: threshold,
		BreakerTimeout:          getDurationEnv("TODOS_BREAKER_TIMEOUT", 30*time.Second),

		SessionDriver: getEnv("SESSION_DRIVER", SessionDriverSQLite),
		SessionID:     getEnv("TODOS_SESSION_ID", "default"),
		SQLitePath:    getEnv("SQLITE_PATH", sqlite.DefaultPath()),
		RedisURL:      getEnv("REDIS_URL", ""),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		MCPAddr:      getEnv("MCP_ADDR", "127.0.0.1:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the client cannot act on.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("TODOS_API_URL is required")
	}
	switch c.IDStrategy {
	case IDStrategyClient, IDStrategyServer:
	default:
		return fmt.Errorf("invalid TODOS_ID_STRATEGY %q (use client or server)", c.IDStrategy)
	}
	switch c.DescriptionField {
	case "todo", "task":
	default:
		return fmt.Errorf("invalid TODOS_DESCRIPTION_FIELD %q (use todo or task)", c.DescriptionField)
	}
	switch c.SessionDriver {
	case SessionDriverSQLite, SessionDriverMemory:
	case SessionDriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when SESSION_DRIVER=redis")
		}
	default:
		return fmt.Errorf("invalid SESSION_DRIVER %q (use sqlite, redis or memory)", c.SessionDriver)
	}
	if c.BreakerEnabled && c.BreakerFailureThreshold == 0 {
		return fmt.Errorf("TODOS_BREAKER_FAILURE_THRESHOLD must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ServerAssignsIDs reports whether new todos are created without a client id.
func (c *Config) ServerAssignsIDs() bool {
	return c.IDStrategy == IDStrategyServer
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
