// Package config provides configuration loading and validation for the
// hiring assistant.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/talentscout/hiring-assistant/internal/interview"
	"github.com/talentscout/hiring-assistant/internal/logger"
)

// Config is the full process configuration. Values can come from a JSON file,
// environment variables, or defaults; environment wins over file.
type Config struct {
	// Server
	ListenAddr string `json:"listen_addr,omitempty"` // HTTP listen address, default ":8080"

	// Collaborators
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty selects the in-memory store
	JWTSecret   string `json:"jwt_secret,omitempty"`   // Manager session token signing secret

	// Behavior
	SearchEnabled bool             `json:"search_enabled,omitempty"` // Gather web reference material for question generation
	Interview     interview.Config `json:"interview,omitempty"`
	Log           logger.Config    `json:"log,omitempty"`
}

// Environment variable names.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
	EnvJWTSecret   = "JWT_SECRET"
	EnvListenAddr  = "LISTEN_ADDR"
	EnvLogLevel    = "LOG_LEVEL"
	EnvSearch      = "SEARCH_ENABLED"
)

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		Interview:  interview.DefaultConfig(),
		Log:        logger.Config{Level: "info", Format: "json"},
	}
}

// Load builds the configuration: defaults, then the JSON file at path (if
// non-empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv(EnvListenAddr); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvSearch); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.SearchEnabled = enabled
		}
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("config error: Gemini API key is required (set %s)", EnvAPIKey)
	}
	if c.Interview.RapportExchanges < 0 {
		return fmt.Errorf("config error: 'interview.rapport_exchanges' must be non-negative")
	}
	if c.Interview.QuestionQuota < 0 {
		return fmt.Errorf("config error: 'interview.question_quota' must be non-negative")
	}
	return nil
}
