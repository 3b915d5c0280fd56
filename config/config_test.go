package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		for _, key := range []string{"SERP_API_KEY", "CONNECTION_TYPE", "PORT", "MCP_LOG_LEVEL", "CACHE_ENABLED", "HISTORY_ENABLED"} {
			// t.Setenv snapshots the original value so unsetting is
			// restored after the test.
			t.Setenv(key, "")
			os.Unsetenv(key)
		}

		cfg, err := Load()
		assert.NoError(t, err)
		assert.NotNil(t, cfg)

		// Test default values
		assert.Equal(t, "http", cfg.Server.ConnectionType)
		assert.Equal(t, "8000", cfg.Server.Port)
		assert.Equal(t, "error", cfg.Server.LogLevel)
		assert.Equal(t, "https://serpapi.com", cfg.SerpAPI.BaseURL)
		assert.Equal(t, 30, cfg.SerpAPI.TimeoutSeconds)
		assert.False(t, cfg.Cache.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
		assert.False(t, cfg.History.Enabled)
	})

	t.Run("EnvironmentVariables", func(t *testing.T) {
		t.Setenv("SERP_API_KEY", "test-key")
		t.Setenv("CONNECTION_TYPE", "stdio")
		t.Setenv("MCP_LOG_LEVEL", "debug")
		t.Setenv("CACHE_ENABLED", "true")

		cfg, err := Load()
		assert.NoError(t, err)
		assert.NotNil(t, cfg)
		assert.Equal(t, "test-key", cfg.SerpAPI.APIKey)
		assert.Equal(t, "stdio", cfg.Server.ConnectionType)
		assert.Equal(t, "debug", cfg.Server.LogLevel)
		assert.True(t, cfg.Cache.Enabled)
	})
}
