package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUserConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadUserConfig(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}
	if cfg.GetAppBaseURL() != DefaultAppBaseURL {
		t.Errorf("AppBaseURL=%q, want %q", cfg.GetAppBaseURL(), DefaultAppBaseURL)
	}
	if cfg.GetAPIBaseURL() != DefaultAppBaseURL {
		t.Errorf("APIBaseURL should fall back to app base URL, got %q", cfg.GetAPIBaseURL())
	}
	if cfg.GetSyncTimeout() != DefaultSyncTimeout {
		t.Errorf("SyncTimeout=%v, want %v", cfg.GetSyncTimeout(), DefaultSyncTimeout)
	}
	if cfg.GetEmbeddingModel() != DefaultEmbeddingModel {
		t.Errorf("EmbeddingModel=%q, want %q", cfg.GetEmbeddingModel(), DefaultEmbeddingModel)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultUserConfig()
	cfg.APIBaseURL = "https://api.example.test"
	cfg.SyncTimeoutSeconds = 60
	cfg.Logging.DebugMode = true
	cfg.Logging.Categories = map[string]bool{"sync": true}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadUserConfig(path)
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}
	if loaded.GetAPIBaseURL() != "https://api.example.test" {
		t.Errorf("APIBaseURL=%q after round trip", loaded.GetAPIBaseURL())
	}
	if loaded.GetSyncTimeout() != 60*time.Second {
		t.Errorf("SyncTimeout=%v, want 60s", loaded.GetSyncTimeout())
	}
	if !loaded.Logging.DebugMode {
		t.Error("Logging.DebugMode lost in round trip")
	}
}
