// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package config

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateGoogle(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateDisplay(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if err := validateHTTPURL(c.Server.SiteURL, "SITE_URL"); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGoogle() error {
	for name, raw := range map[string]string{
		"GOOGLE_AUTH_URL":     c.Google.AuthURL,
		"GOOGLE_TOKEN_URL":    c.Google.TokenURL,
		"GOOGLE_API_BASE_URL": c.Google.APIBaseURL,
	} {
		if err := validateEndpointURL(raw, name); err != nil {
			return err
		}
	}
	if c.Google.RequestTimeout <= 0 {
		return fmt.Errorf("GOOGLE_REQUEST_TIMEOUT must be positive")
	}
	if c.Google.RequestsPerSecond <= 0 {
		return fmt.Errorf("GOOGLE_REQUESTS_PER_SECOND must be positive")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.MaxPages < 1 {
		return fmt.Errorf("SYNC_MAX_PAGES must be at least 1, got %d", c.Sync.MaxPages)
	}
	if c.Sync.PageDelay < 0 {
		return fmt.Errorf("SYNC_PAGE_DELAY must not be negative")
	}
	if c.Sync.LockTTL <= 0 {
		return fmt.Errorf("SYNC_LOCK_TTL must be positive")
	}
	if c.Sync.Enabled {
		if c.Sync.Interval <= 0 {
			return fmt.Errorf("SYNC_INTERVAL must be positive when sync is enabled")
		}
		if c.Sync.TokenRefreshInterval <= 0 {
			return fmt.Errorf("SYNC_TOKEN_REFRESH_INTERVAL must be positive when sync is enabled")
		}
	}
	return nil
}

func (c *Config) validateDisplay() error {
	if c.Cache.TTLHours < 1 || c.Cache.TTLHours > 72 {
		return fmt.Errorf("CACHE_TTL_HOURS must be between 1 and 72, got %d", c.Cache.TTLHours)
	}
	if c.Display.RowsPerPage < 1 || c.Display.RowsPerPage > 100 {
		return fmt.Errorf("DISPLAY_ROWS_PER_PAGE must be between 1 and 100, got %d", c.Display.RowsPerPage)
	}
	for _, f := range c.Display.Fields {
		if !slices.Contains(AllowedFields, f) {
			return fmt.Errorf("DISPLAY_FIELDS contains unknown field %q (allowed: %s)", f, strings.Join(AllowedFields, ", "))
		}
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Type {
	case "badger":
		if c.Store.Path == "" {
			return fmt.Errorf("STORE_PATH is required when STORE_TYPE=badger")
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when STORE_TYPE=redis")
		}
	case "memory":
	default:
		return fmt.Errorf("STORE_TYPE must be badger, redis or memory, got %q", c.Store.Type)
	}

	if c.Store.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(c.Store.EncryptionKey)
		if err != nil {
			return fmt.Errorf("STORE_ENCRYPTION_KEY must be base64: %w", err)
		}
		if len(key) < 16 {
			return fmt.Errorf("STORE_ENCRYPTION_KEY must decode to at least 16 bytes")
		}
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.AdminUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME is required")
	}
	if len(c.Security.AdminPassword) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}
	if len(c.Security.StateSecret) < 32 {
		return fmt.Errorf("OAUTH_STATE_SECRET must be at least 32 characters")
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a known level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

// validateHTTPURL accepts a base http(s) URL with no path beyond "/" and no query.
func validateHTTPURL(rawURL, fieldName string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if u.Path != "" && u.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, u.Path)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters", fieldName)
	}
	return nil
}

// validateEndpointURL is like validateHTTPURL but allows a path.
func validateEndpointURL(rawURL, fieldName string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	return nil
}
