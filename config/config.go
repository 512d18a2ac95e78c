// Package config loads service configuration from the environment and
// validates it before anything talks to an external system.
package config

import (
	"os"
	"strconv"
	"time"
)

// Postgres holds connection settings for the pgvector document index.
type Postgres struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	SSLMode   string
	Dimension int
	TableName string
}

// Redis holds connection settings for the Redis task store.
type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Config is the full service configuration.
type Config struct {
	ServerAddr string

	// LLM provider selection: groq, openai, claude or gemini.
	Provider        string
	Model           string
	Temperature     float64
	MaxTokens       int
	GroqAPIKey      string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string

	TavilyAPIKey string
	OCREndpoint  string

	// Vector backend selection: memory or postgres.
	VectorBackend      string
	EmbeddingModel     string
	EmbeddingDimension int

	// Task store selection: memory or redis.
	TaskStore         string
	TaskRetention     time.Duration
	TaskSweepInterval time.Duration

	Postgres Postgres
	Redis    Redis
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		Provider:        getEnv("LLM_PROVIDER", "groq"),
		Model:           getEnv("LLM_MODEL", ""),
		Temperature:     getEnvFloat("LLM_TEMPERATURE", 0.6),
		MaxTokens:       getEnvInt("LLM_MAX_TOKENS", 2048),
		GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),

		TavilyAPIKey: getEnv("TAVILY_API_KEY", ""),
		OCREndpoint:  getEnv("OCR_ENDPOINT", ""),

		VectorBackend:      getEnv("VECTOR_BACKEND", "memory"),
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimension: getEnvInt("EMBEDDING_DIMENSION", 1536),

		TaskStore:         getEnv("TASK_STORE", "memory"),
		TaskRetention:     getEnvDuration("TASK_RETENTION", 24*time.Hour),
		TaskSweepInterval: getEnvDuration("TASK_SWEEP_INTERVAL", time.Hour),

		Postgres: Postgres{
			Host:      getEnv("POSTGRES_HOST", "localhost"),
			Port:      getEnvInt("POSTGRES_PORT", 5432),
			User:      getEnv("POSTGRES_USER", "postgres"),
			Password:  getEnv("POSTGRES_PASSWORD", ""),
			DBName:    getEnv("POSTGRES_DB", "legalassist"),
			SSLMode:   getEnv("POSTGRES_SSLMODE", "disable"),
			Dimension: getEnvInt("EMBEDDING_DIMENSION", 1536),
			TableName: getEnv("POSTGRES_TABLE", "passages"),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "legalassist:task:"),
		},
	}
}

// ProviderAPIKey returns the API key for the selected provider.
func (c *Config) ProviderAPIKey() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIAPIKey
	case "claude":
		return c.AnthropicAPIKey
	case "gemini":
		return c.GeminiAPIKey
	default:
		return c.GroqAPIKey
	}
}

// Validate checks the loaded configuration for the selected backends.
func (c *Config) Validate() error {
	v := NewValidator()
	v.RequireNonEmpty("serverAddr", c.ServerAddr)
	v.ValidateOneOf("provider", c.Provider, "groq", "openai", "claude", "gemini")
	v.ValidateOneOf("vectorBackend", c.VectorBackend, "memory", "postgres")
	v.ValidateOneOf("taskStore", c.TaskStore, "memory", "redis")
	if err := v.Error(); err != nil {
		return err
	}

	if err := ValidateLLMConfig(c.ProviderAPIKey(), c.Temperature, c.MaxTokens); err != nil {
		return err
	}
	if c.VectorBackend == "postgres" {
		if err := ValidatePostgresConfig(c.Postgres.Host, c.Postgres.Port, c.Postgres.User,
			c.Postgres.DBName, c.Postgres.SSLMode, c.Postgres.Dimension); err != nil {
			return err
		}
	}
	if c.TaskStore == "redis" {
		if err := ValidateRedisConfig(c.Redis.Addr, c.Redis.DB, c.Redis.Prefix); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions for environment variable reading

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
