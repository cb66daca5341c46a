package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("SUMMARIZER_BACKEND", "none")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, []string{"http://localhost:8081"}, cfg.AllowedOrigins)
		assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "https://www.themealdb.com/api/json/v1/1", cfg.MealDB.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.MealDB.LookupTimeout)
		assert.Equal(t, 4, cfg.MealDB.Workers)
		assert.Equal(t, time.Hour, cfg.CacheTTL)
		assert.False(t, cfg.UploadEnabled())
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("SUMMARIZER_BACKEND", "gemini")
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("SPOONACULAR_API_KEY", "spoon_key")
		t.Setenv("LOOKUP_WORKERS", "8")
		t.Setenv("LOOKUP_TIMEOUT", "2s")
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test;http://b.test")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "gemini_key", cfg.GeminiAPIKey)
		assert.Equal(t, 8, cfg.MealDB.Workers)
		assert.Equal(t, 2*time.Second, cfg.MealDB.LookupTimeout)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
		assert.True(t, cfg.UploadEnabled())
	})

	t.Run("gemini without key fails fast", func(t *testing.T) {
		t.Setenv("SUMMARIZER_BACKEND", "gemini")
		t.Setenv("GEMINI_API_KEY", "")

		_, err := Load()
		require.Error(t, err)
		assert.Equal(t, "GEMINI_API_KEY environment variable not set", err.Error())
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			SummarizerBackend: BackendNone,
			RequestTimeout:    time.Second,
			MealDB:            MealDBConfig{Workers: 1, LookupTimeout: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"local backend", func(c *Config) { c.SummarizerBackend = BackendLocal; c.LocalLLMURL = "http://llm" }, ""},
		{"local backend without url", func(c *Config) { c.SummarizerBackend = BackendLocal }, "LOCAL_LLM_URL environment variable not set"},
		{"unknown backend", func(c *Config) { c.SummarizerBackend = "bart" }, `unknown SUMMARIZER_BACKEND "bart"`},
		{"zero workers", func(c *Config) { c.MealDB.Workers = 0 }, "LOOKUP_WORKERS must be positive, got 0"},
		{"zero timeout", func(c *Config) { c.MealDB.LookupTimeout = 0 }, "timeouts must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
