// Package config holds all oppla configuration from ~/.oppla/config.json.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// UserConfig holds ALL oppla configuration from ~/.oppla/config.json.
// This is the single source of truth for configuration.
type UserConfig struct {
	// =========================================================================
	// REMOTE ENDPOINTS
	// =========================================================================

	// Base URL of the Oppla web app (handoff page, sign-in page)
	AppBaseURL string `json:"app_base_url,omitempty"`

	// Base URL of the Oppla API (llm-token, search, embeddings).
	// Defaults to AppBaseURL when empty.
	APIBaseURL string `json:"api_base_url,omitempty"`

	// =========================================================================
	// TASK SYNC
	// =========================================================================

	// Total wall-clock budget for the sync callback wait, in seconds.
	// 0 means the default of 300 (5 minutes).
	SyncTimeoutSeconds int `json:"sync_timeout_seconds,omitempty"`

	// =========================================================================
	// EMBEDDING
	// =========================================================================

	// Model name sent to the cloud embedding endpoint
	EmbeddingModel string `json:"embedding_model,omitempty"`

	// =========================================================================
	// LOGGING
	// =========================================================================

	Logging LoggingConfig `json:"logging,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `json:"level,omitempty"`       // debug, info, warn, error
	DebugMode  bool            `json:"debug_mode,omitempty"`  // Master toggle - false = no logging (production)
	JSONFormat bool            `json:"json_format,omitempty"` // Structured JSON entries
	Categories map[string]bool `json:"categories,omitempty"`  // Per-category toggles
}

// Defaults
const (
	DefaultAppBaseURL     = "https://app.oppla.ai"
	DefaultSyncTimeout    = 300 * time.Second
	DefaultEmbeddingModel = "together-ai-embedding-up-to-150m"
)

// DefaultUserConfig returns a config with production defaults.
func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		AppBaseURL:     DefaultAppBaseURL,
		EmbeddingModel: DefaultEmbeddingModel,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// GetAppBaseURL returns the app base URL, falling back to the default.
func (c *UserConfig) GetAppBaseURL() string {
	if c.AppBaseURL != "" {
		return c.AppBaseURL
	}
	return DefaultAppBaseURL
}

// GetAPIBaseURL returns the API base URL. Falls back to the app base URL,
// which is where the hosted API lives in production.
func (c *UserConfig) GetAPIBaseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	return c.GetAppBaseURL()
}

// GetSyncTimeout returns the callback wait budget.
func (c *UserConfig) GetSyncTimeout() time.Duration {
	if c.SyncTimeoutSeconds > 0 {
		return time.Duration(c.SyncTimeoutSeconds) * time.Second
	}
	return DefaultSyncTimeout
}

// GetEmbeddingModel returns the embedding model name.
func (c *UserConfig) GetEmbeddingModel() string {
	if c.EmbeddingModel != "" {
		return c.EmbeddingModel
	}
	return DefaultEmbeddingModel
}

// OpplaHome returns the oppla home directory (~/.oppla).
func OpplaHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".oppla"
	}
	return filepath.Join(home, ".oppla")
}

// DefaultUserConfigPath returns the default path to ~/.oppla/config.json.
func DefaultUserConfigPath() string {
	return filepath.Join(OpplaHome(), "config.json")
}

// LoadUserConfig loads configuration from the given path.
func LoadUserConfig(path string) (*UserConfig, error) {
	cfg := DefaultUserConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the given path.
func (c *UserConfig) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}
