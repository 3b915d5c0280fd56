package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config aggregates all application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	SerpAPI SerpAPIConfig `yaml:"serpapi"`
	Cache   CacheConfig   `yaml:"cache"`
	History HistoryConfig `yaml:"history"`
}

type ServerConfig struct {
	// ConnectionType selects the transport: "http" or "stdio".
	ConnectionType string `yaml:"connection_type" env:"CONNECTION_TYPE" env-default:"http"`
	Port           string `yaml:"port" env:"PORT" env-default:"8000"`
	// LogLevel defaults to error so stdio transports keep stdout
	// clean for protocol frames.
	LogLevel string `yaml:"log_level" env:"MCP_LOG_LEVEL" env-default:"error"`
}

type SerpAPIConfig struct {
	APIKey            string  `yaml:"api_key" env:"SERP_API_KEY"`
	BaseURL           string  `yaml:"base_url" env:"SERPAPI_BASE_URL" env-default:"https://serpapi.com"`
	TimeoutSeconds    int     `yaml:"timeout_seconds" env:"SERPAPI_TIMEOUT_SECONDS" env-default:"30"`
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"SERPAPI_REQUESTS_PER_SECOND" env-default:"1"`
	Burst             int     `yaml:"burst" env:"SERPAPI_BURST" env-default:"2"`
}

type CacheConfig struct {
	Enabled       bool   `yaml:"enabled" env:"CACHE_ENABLED" env-default:"false"`
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`
	TTLMinutes    int    `yaml:"ttl_minutes" env:"CACHE_TTL_MINUTES" env-default:"5"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" env:"HISTORY_ENABLED" env-default:"false"`
	Path    string `yaml:"path" env:"HISTORY_DB_PATH" env-default:"skyquery.db"`
}

// Load reads configuration from config.yaml and environment variables
// Priority: Env Vars > Config File > Defaults
func Load() (*Config, error) {
	var cfg Config

	// Read config.yaml if present, then override with envs.
	err := cleanenv.ReadConfig("config.yaml", &cfg)
	if err != nil {
		// If file doesn't exist, just read env vars
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
	}

	return &cfg, nil
}
