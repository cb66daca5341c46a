package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Summarizer backends.
const (
	BackendGemini = "gemini"
	BackendLocal  = "local"
	BackendNone   = "none"
)

// Config represents the application configuration, read from the environment.
type Config struct {
	Addr           string        `env:"ADDR,default=:8080"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:8081"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=45s"`
	LogDevelopment bool          `env:"LOG_DEVELOPMENT,default=false"`

	MealDB MealDBConfig

	SummarizerBackend string        `env:"SUMMARIZER_BACKEND,default=gemini"`
	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	GeminiModel       string        `env:"GEMINI_MODEL,default=gemini-1.5-flash"`
	LocalLLMURL       string        `env:"LOCAL_LLM_URL,default=http://localhost:1234/v1/chat/completions"`
	LocalLLMModel     string        `env:"LOCAL_LLM_MODEL,default=gemma-3-12b-it"`
	SummaryTimeout    time.Duration `env:"SUMMARY_TIMEOUT,default=20s"`

	SpoonacularAPIKey  string `env:"SPOONACULAR_API_KEY"`
	SpoonacularBaseURL string `env:"SPOONACULAR_BASE_URL,default=https://api.spoonacular.com"`

	DatabaseURL string        `env:"DATABASE_URL"`
	RedisAddr   string        `env:"REDIS_ADDR"`
	CacheTTL    time.Duration `env:"CACHE_TTL,default=1h"`
}

// MealDBConfig configures the recipe provider lookups.
type MealDBConfig struct {
	BaseURL       string        `env:"MEALDB_BASE_URL,default=https://www.themealdb.com/api/json/v1/1"`
	LookupTimeout time.Duration `env:"LOOKUP_TIMEOUT,default=5s"`
	Workers       int           `env:"LOOKUP_WORKERS,default=4"`
}

// Load decodes the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	switch c.SummarizerBackend {
	case BackendGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case BackendLocal:
		if c.LocalLLMURL == "" {
			return fmt.Errorf("LOCAL_LLM_URL environment variable not set")
		}
	case BackendNone:
	default:
		return fmt.Errorf("unknown SUMMARIZER_BACKEND %q", c.SummarizerBackend)
	}

	if c.MealDB.Workers < 1 {
		return fmt.Errorf("LOOKUP_WORKERS must be positive, got %d", c.MealDB.Workers)
	}
	if c.MealDB.LookupTimeout <= 0 || c.RequestTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

// UploadEnabled reports whether the image upload path has a provider key.
func (c *Config) UploadEnabled() bool {
	return c.SpoonacularAPIKey != ""
}
