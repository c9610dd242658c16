package config

import (
	"fmt"
	"os"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

// LLMConfig holds the completion-service credentials and sampling defaults.
type LLMConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int32
}

// SearchConfig holds the flights/hotels/places search provider credentials.
type SearchConfig struct {
	APIKey  string
	BaseURL string
}

type Config struct {
	Repositories RepositoriesConfig
	LLM          LLMConfig
	Search       SearchConfig
	JWTSecret    string
	ServerPort   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5454"),
				DB:       getEnvOrDefault("POSTGRES_DB", "journeygenie"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		LLM: LLMConfig{
			APIKey:      os.Getenv("GEMINI_API_KEY"),
			Model:       getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
			Temperature: 0.5,
			MaxTokens:   2048,
		},
		Search: SearchConfig{
			APIKey:  os.Getenv("SERPAPI_API_KEY"),
			BaseURL: getEnvOrDefault("SERPAPI_BASE_URL", "https://serpapi.com"),
		},
		JWTSecret:  getEnvOrDefault("JWT_SECRET_KEY", ""),
		ServerPort: getEnvOrDefault("SERVER_PORT", "8091"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
