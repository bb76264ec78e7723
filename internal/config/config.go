// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

// Package config loads Reviewsync configuration.
//
// Values are layered with koanf: built-in defaults, then an optional YAML
// file, then environment variables. See koanf.go for the file search order
// and the environment variable names.
package config

import (
	"net/url"
	"strings"
	"time"
)

// Config is the complete process configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Google   GoogleConfig   `koanf:"google"`
	Sync     SyncConfig     `koanf:"sync"`
	Cache    CacheConfig    `koanf:"cache"`
	Display  DisplayConfig  `koanf:"display"`
	Store    StoreConfig    `koanf:"store"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// SiteURL is the public URL of the site that embeds the reviews. Its host
	// is the reference for the same-origin check on public endpoints.
	SiteURL string `koanf:"site_url"`
}

// GoogleConfig holds OAuth client settings and provider endpoints.
type GoogleConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`

	// RedirectURL defaults to SiteURL + /api/v1/admin/oauth/callback.
	RedirectURL string `koanf:"redirect_url"`

	AuthURL    string `koanf:"auth_url"`
	TokenURL   string `koanf:"token_url"`
	APIBaseURL string `koanf:"api_base_url"`

	// BusinessID seeds the stored location id on first start.
	BusinessID string `koanf:"business_id"`

	RequestTimeout time.Duration `koanf:"request_timeout"`

	// RequestsPerSecond paces outbound provider calls.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// SyncConfig controls the scheduled sync and token refresh loops.
type SyncConfig struct {
	Enabled              bool          `koanf:"enabled"`
	Interval             time.Duration `koanf:"interval"`
	TokenRefreshInterval time.Duration `koanf:"token_refresh_interval"`
	TokenRefreshWindow   time.Duration `koanf:"token_refresh_window"`
	MaxPages             int           `koanf:"max_pages"`
	PageDelay            time.Duration `koanf:"page_delay"`
	LockTTL              time.Duration `koanf:"lock_ttl"`
	ErrorTTL             time.Duration `koanf:"error_ttl"`
	RunOnStartup         bool          `koanf:"run_on_startup"`
}

// CacheConfig holds the review cache lifetime.
type CacheConfig struct {
	TTLHours int `koanf:"ttl_hours"`
}

// DisplayConfig seeds the stored display defaults on first start.
type DisplayConfig struct {
	RowsPerPage int      `koanf:"rows_per_page"`
	Fields      []string `koanf:"fields"`
}

// StoreConfig selects and configures the option/transient store backend.
type StoreConfig struct {
	// Type is badger, redis or memory.
	Type string `koanf:"type"`

	// Path is the badger data directory.
	Path string `koanf:"path"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// EncryptionKey is a base64 key (>=16 bytes decoded). When set, client
	// secret and tokens are AES-GCM encrypted at rest.
	EncryptionKey string `koanf:"encryption_key"`
}

// SecurityConfig holds admin authentication and request limiting settings.
type SecurityConfig struct {
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	// StateSecret signs the OAuth state parameter.
	StateSecret string `koanf:"state_secret"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	CSRFSecureCookie  bool          `koanf:"csrf_secure_cookie"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SiteHost returns the host part (without port) of Server.SiteURL.
func (c *Config) SiteHost() string {
	u, err := url.Parse(c.Server.SiteURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// OAuthRedirectURL returns the configured redirect URL or the default
// callback under SiteURL.
func (c *Config) OAuthRedirectURL() string {
	if c.Google.RedirectURL != "" {
		return c.Google.RedirectURL
	}
	return strings.TrimSuffix(c.Server.SiteURL, "/") + "/api/v1/admin/oauth/callback"
}

// CacheTTL returns the review cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// Load reads configuration from defaults, file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
