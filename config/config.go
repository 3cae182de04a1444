// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the service needs to start.
type Config struct {
	Port  string
	Model string

	AnthropicAPIKey string
	SerperAPIKey    string

	// UseMockLLM swaps the model and search clients for local fakes so the
	// service runs without API keys.
	UseMockLLM bool

	EmbeddingBaseURL string
	EmbeddingAPIKey  string
	EmbeddingModel   string

	// DocsDir, when set, is ingested into the vector store at startup.
	DocsDir string
	TopK    int

	// ProfileBackend is "memory" or "sqlite".
	ProfileBackend string
	DBPath         string

	MaxSessions int
	StepTimeout time.Duration
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("SAHAYAK_PORT", "8000"),
		Model: getEnv("SAHAYAK_MODEL", ""),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		SerperAPIKey:    getEnv("SERPER_API_KEY", ""),

		UseMockLLM: getEnvBool("SAHAYAK_USE_MOCK_LLM", false),

		EmbeddingBaseURL: getEnv("SAHAYAK_EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
		EmbeddingAPIKey:  getEnv("SAHAYAK_EMBEDDING_API_KEY", ""),
		EmbeddingModel:   getEnv("SAHAYAK_EMBEDDING_MODEL", "text-embedding-3-small"),

		DocsDir: getEnv("SAHAYAK_DOCS_DIR", ""),
		TopK:    getEnvInt("SAHAYAK_TOP_K", 3),

		ProfileBackend: getEnv("SAHAYAK_PROFILE_BACKEND", "memory"),
		DBPath:         getEnv("SAHAYAK_DB_PATH", "data/sahayak.db"),

		MaxSessions: getEnvInt("SAHAYAK_MAX_SESSIONS", 1024),
		StepTimeout: time.Duration(getEnvInt("SAHAYAK_STEP_TIMEOUT_SECONDS", 60)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present for the chosen mode.
func (c *Config) Validate() error {
	if !c.UseMockLLM {
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required (or set SAHAYAK_USE_MOCK_LLM=true)")
		}
		if c.SerperAPIKey == "" {
			return fmt.Errorf("SERPER_API_KEY is required (or set SAHAYAK_USE_MOCK_LLM=true)")
		}
		if c.EmbeddingAPIKey == "" {
			return fmt.Errorf("SAHAYAK_EMBEDDING_API_KEY is required (or set SAHAYAK_USE_MOCK_LLM=true)")
		}
	}

	switch c.ProfileBackend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("SAHAYAK_PROFILE_BACKEND must be \"memory\" or \"sqlite\", got %q", c.ProfileBackend)
	}

	if c.TopK <= 0 {
		return fmt.Errorf("SAHAYAK_TOP_K must be positive, got %d", c.TopK)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
