// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reviewsync/config.yaml",
	"/etc/reviewsync/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultFields is the review field selection used when none is stored.
var DefaultFields = []string{"author_name", "text", "rating", "time"}

// AllowedFields lists every selectable review field.
var AllowedFields = []string{"author_name", "text", "rating", "time", "reply"}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 30 * time.Second,
			SiteURL: "http://localhost:8080",
		},
		Google: GoogleConfig{
			AuthURL:           "https://accounts.google.com/o/oauth2/auth",
			TokenURL:          "https://oauth2.googleapis.com/token",
			APIBaseURL:        "https://mybusiness.googleapis.com/v4",
			RequestTimeout:    30 * time.Second,
			RequestsPerSecond: 5,
		},
		Sync: SyncConfig{
			Enabled:              true,
			Interval:             24 * time.Hour,
			TokenRefreshInterval: time.Hour,
			TokenRefreshWindow:   time.Hour,
			MaxPages:             50,
			PageDelay:            time.Second,
			LockTTL:              5 * time.Minute,
			ErrorTTL:             24 * time.Hour,
		},
		Cache: CacheConfig{
			TTLHours: 6,
		},
		Display: DisplayConfig{
			RowsPerPage: 10,
			Fields:      append([]string(nil), DefaultFields...),
		},
		Store: StoreConfig{
			Type: "badger",
			Path: "/data/reviewsync",
		},
		Security: SecurityConfig{
			RateLimitReqs:    100,
			RateLimitWindow:  time.Minute,
			CSRFSecureCookie: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// sliceConfigPaths are split on commas when they arrive as env strings.
var sliceConfigPaths = []string{
	"display.fields",
	"security.cors_origins",
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"site_url":     "server.site_url",

	"google_client_id":           "google.client_id",
	"google_client_secret":       "google.client_secret",
	"google_redirect_url":        "google.redirect_url",
	"google_auth_url":            "google.auth_url",
	"google_token_url":           "google.token_url",
	"google_api_base_url":        "google.api_base_url",
	"google_business_id":         "google.business_id",
	"google_request_timeout":     "google.request_timeout",
	"google_requests_per_second": "google.requests_per_second",

	"sync_enabled":                "sync.enabled",
	"sync_interval":               "sync.interval",
	"sync_token_refresh_interval": "sync.token_refresh_interval",
	"sync_token_refresh_window":   "sync.token_refresh_window",
	"sync_max_pages":              "sync.max_pages",
	"sync_page_delay":             "sync.page_delay",
	"sync_lock_ttl":               "sync.lock_ttl",
	"sync_error_ttl":              "sync.error_ttl",
	"sync_on_startup":             "sync.run_on_startup",

	"cache_ttl_hours": "cache.ttl_hours",

	"display_rows_per_page": "display.rows_per_page",
	"display_fields":        "display.fields",

	"store_type":           "store.type",
	"store_path":           "store.path",
	"redis_addr":           "store.redis_addr",
	"redis_password":       "store.redis_password",
	"redis_db":             "store.redis_db",
	"store_encryption_key": "store.encryption_key",

	"admin_username":      "security.admin_username",
	"admin_password":      "security.admin_password",
	"oauth_state_secret":  "security.state_secret",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"csrf_secure_cookie":  "security.csrf_secure_cookie",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// LoadWithKoanf builds the layered configuration and validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := splitCSV(raw)
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func splitCSV(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
