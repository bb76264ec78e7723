// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

// setRequiredEnv provides the settings that have no usable default.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "correct-horse")
	t.Setenv("OAUTH_STATE_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Sync.MaxPages != 50 {
		t.Errorf("Sync.MaxPages = %d, want 50", cfg.Sync.MaxPages)
	}
	if cfg.Sync.PageDelay != time.Second {
		t.Errorf("Sync.PageDelay = %v, want 1s", cfg.Sync.PageDelay)
	}
	if cfg.Sync.LockTTL != 5*time.Minute {
		t.Errorf("Sync.LockTTL = %v, want 5m", cfg.Sync.LockTTL)
	}
	if cfg.Sync.Interval != 24*time.Hour {
		t.Errorf("Sync.Interval = %v, want 24h", cfg.Sync.Interval)
	}
	if cfg.Cache.TTLHours != 6 {
		t.Errorf("Cache.TTLHours = %d, want 6", cfg.Cache.TTLHours)
	}
	if cfg.Display.RowsPerPage != 10 {
		t.Errorf("Display.RowsPerPage = %d, want 10", cfg.Display.RowsPerPage)
	}
	if !slices.Equal(cfg.Display.Fields, DefaultFields) {
		t.Errorf("Display.Fields = %v, want %v", cfg.Display.Fields, DefaultFields)
	}
	if cfg.Google.RequestTimeout != 30*time.Second {
		t.Errorf("Google.RequestTimeout = %v, want 30s", cfg.Google.RequestTimeout)
	}
	if cfg.Google.TokenURL != "https://oauth2.googleapis.com/token" {
		t.Errorf("Google.TokenURL = %q", cfg.Google.TokenURL)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SYNC_INTERVAL", "12h")
	t.Setenv("CACHE_TTL_HOURS", "24")
	t.Setenv("DISPLAY_FIELDS", "author_name, reply")
	t.Setenv("STORE_TYPE", "memory")
	t.Setenv("GOOGLE_BUSINESS_ID", "accounts/1/locations/2")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Sync.Interval != 12*time.Hour {
		t.Errorf("Sync.Interval = %v, want 12h", cfg.Sync.Interval)
	}
	if cfg.CacheTTL() != 24*time.Hour {
		t.Errorf("CacheTTL() = %v, want 24h", cfg.CacheTTL())
	}
	if want := []string{"author_name", "reply"}; !slices.Equal(cfg.Display.Fields, want) {
		t.Errorf("Display.Fields = %v, want %v", cfg.Display.Fields, want)
	}
	if cfg.Google.BusinessID != "accounts/1/locations/2" {
		t.Errorf("Google.BusinessID = %q", cfg.Google.BusinessID)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  site_url: https://example.com
store:
  type: memory
sync:
  max_pages: 10
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.SiteHost() != "example.com" {
		t.Errorf("SiteHost() = %q, want example.com", cfg.SiteHost())
	}
	if cfg.Sync.MaxPages != 10 {
		t.Errorf("Sync.MaxPages = %d, want 10", cfg.Sync.MaxPages)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn (env beats file)", cfg.Logging.Level)
	}
	if got := cfg.OAuthRedirectURL(); got != "https://example.com/api/v1/admin/oauth/callback" {
		t.Errorf("OAuthRedirectURL() = %q", got)
	}
}

func TestLoadWithKoanf_MissingAdmin(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("STORE_TYPE", "memory")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("LoadWithKoanf() error = nil, want admin credentials error")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"GOOGLE_CLIENT_ID": "google.client_id",
		"sync_max_pages":   "sync.max_pages",
		"PATH":             "",
		"HOME":             "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
