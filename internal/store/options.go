// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/tomtom215/reviewsync/internal/config"
	"github.com/tomtom215/reviewsync/internal/models"
)

// Options is the typed view over the option keys: credentials, display
// settings and sync statistics.
type Options struct {
	store Store
	enc   *Encryptor
}

// NewOptions wraps s. enc may be nil to store sensitive values in plain text.
func NewOptions(s Store, enc *Encryptor) *Options {
	return &Options{store: s, enc: enc}
}

// Store returns the underlying backend.
func (o *Options) Store() Store {
	return o.store
}

// Credentials loads the OAuth client and token values. Missing values are
// returned as zero values, not errors.
func (o *Options) Credentials(ctx context.Context) (models.Credentials, error) {
	var c models.Credentials
	var err error

	if c.ClientID, err = GetString(ctx, o.store, KeyClientID); err != nil {
		return c, err
	}
	if c.ClientSecret, err = o.getSecret(ctx, KeyClientSecret); err != nil {
		return c, err
	}
	if c.AccessToken, err = o.getSecret(ctx, KeyAccessToken); err != nil {
		return c, err
	}
	if c.RefreshToken, err = o.getSecret(ctx, KeyRefreshToken); err != nil {
		return c, err
	}
	expires, err := GetInt64(ctx, o.store, KeyTokenExpires, 0)
	if err != nil {
		return c, err
	}
	if expires > 0 {
		c.Expiry = time.Unix(expires, 0)
	}
	return c, nil
}

// SaveClient stores the OAuth client id and secret.
func (o *Options) SaveClient(ctx context.Context, clientID, clientSecret string) error {
	if err := SetString(ctx, o.store, KeyClientID, clientID, 0); err != nil {
		return err
	}
	return o.setSecret(ctx, KeyClientSecret, clientSecret)
}

// SaveTokens stores a token set. An empty refreshToken keeps the stored one.
func (o *Options) SaveTokens(ctx context.Context, accessToken, refreshToken string, expiry time.Time) error {
	if err := o.setSecret(ctx, KeyAccessToken, accessToken); err != nil {
		return err
	}
	if refreshToken != "" {
		if err := o.setSecret(ctx, KeyRefreshToken, refreshToken); err != nil {
			return err
		}
	}
	return SetInt64(ctx, o.store, KeyTokenExpires, expiry.Unix())
}

// ClearTokens removes the access token, refresh token and expiry.
func (o *Options) ClearTokens(ctx context.Context) error {
	for _, k := range []string{KeyAccessToken, KeyRefreshToken, KeyTokenExpires} {
		if err := o.store.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (o *Options) getSecret(ctx context.Context, key string) (string, error) {
	v, err := GetString(ctx, o.store, key)
	if err != nil {
		return "", err
	}
	plain, err := o.enc.Decrypt(v)
	if err != nil {
		return "", fmt.Errorf("decrypt %s: %w", key, err)
	}
	return plain, nil
}

func (o *Options) setSecret(ctx context.Context, key, value string) error {
	sealed, err := o.enc.Encrypt(value)
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", key, err)
	}
	return SetString(ctx, o.store, key, sealed, 0)
}

// BusinessID returns the configured location id, or "".
func (o *Options) BusinessID(ctx context.Context) (string, error) {
	return GetString(ctx, o.store, KeyBusinessID)
}

// Settings loads the display settings, falling back to defaults for any
// value never stored.
func (o *Options) Settings(ctx context.Context) (models.DisplaySettings, error) {
	s := models.DisplaySettings{
		RowsPerPage:   10,
		DefaultFields: append([]string(nil), config.DefaultFields...),
		CacheTTLHours: 6,
	}
	var err error

	if s.BusinessID, err = o.BusinessID(ctx); err != nil {
		return s, err
	}
	rows, err := GetInt64(ctx, o.store, KeyRowsPerPage, int64(s.RowsPerPage))
	if err != nil {
		return s, err
	}
	s.RowsPerPage = int(rows)

	ttl, err := GetInt64(ctx, o.store, KeyCacheTTLHours, int64(s.CacheTTLHours))
	if err != nil {
		return s, err
	}
	s.CacheTTLHours = int(ttl)

	var fields []string
	found, err := GetJSON(ctx, o.store, KeyDefaultFields, &fields)
	if err != nil {
		return s, err
	}
	if found {
		s.DefaultFields = fields
	}
	return s, nil
}

// SaveSettings stores every display setting. Fields outside
// config.AllowedFields are dropped.
func (o *Options) SaveSettings(ctx context.Context, s models.DisplaySettings) error {
	fields := make([]string, 0, len(s.DefaultFields))
	for _, f := range s.DefaultFields {
		if slices.Contains(config.AllowedFields, f) {
			fields = append(fields, f)
		}
	}

	if err := SetString(ctx, o.store, KeyBusinessID, s.BusinessID, 0); err != nil {
		return err
	}
	if err := SetInt64(ctx, o.store, KeyRowsPerPage, int64(s.RowsPerPage)); err != nil {
		return err
	}
	if err := SetInt64(ctx, o.store, KeyCacheTTLHours, int64(s.CacheTTLHours)); err != nil {
		return err
	}
	return SetJSON(ctx, o.store, KeyDefaultFields, fields, 0)
}

// CacheTTL returns the stored review cache lifetime.
func (o *Options) CacheTTL(ctx context.Context) (time.Duration, error) {
	h, err := GetInt64(ctx, o.store, KeyCacheTTLHours, 6)
	if err != nil {
		return 0, err
	}
	return time.Duration(h) * time.Hour, nil
}

// Seed writes configuration values for options that have never been stored.
// Values changed later through the admin API are not overwritten on restart.
func (o *Options) Seed(ctx context.Context, cfg *config.Config) error {
	seed := func(key string, write func() error) error {
		if _, err := o.store.Get(ctx, key); err == nil {
			return nil
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		return write()
	}

	steps := []struct {
		key   string
		write func() error
	}{
		{KeyClientID, func() error { return SetString(ctx, o.store, KeyClientID, cfg.Google.ClientID, 0) }},
		{KeyClientSecret, func() error { return o.setSecret(ctx, KeyClientSecret, cfg.Google.ClientSecret) }},
		{KeyBusinessID, func() error { return SetString(ctx, o.store, KeyBusinessID, cfg.Google.BusinessID, 0) }},
		{KeyRowsPerPage, func() error { return SetInt64(ctx, o.store, KeyRowsPerPage, int64(cfg.Display.RowsPerPage)) }},
		{KeyCacheTTLHours, func() error { return SetInt64(ctx, o.store, KeyCacheTTLHours, int64(cfg.Cache.TTLHours)) }},
		{KeyDefaultFields, func() error { return SetJSON(ctx, o.store, KeyDefaultFields, cfg.Display.Fields, 0) }},
	}
	for _, st := range steps {
		if err := seed(st.key, st.write); err != nil {
			return fmt.Errorf("seed %s: %w", st.key, err)
		}
	}
	return nil
}

// Stats loads the persisted sync statistics.
func (o *Options) Stats(ctx context.Context) (models.SyncStats, error) {
	var st models.SyncStats

	total, err := GetInt64(ctx, o.store, KeyTotalReviews, 0)
	if err != nil {
		return st, err
	}
	five, err := GetInt64(ctx, o.store, KeyFiveStarCount, 0)
	if err != nil {
		return st, err
	}
	last, err := GetInt64(ctx, o.store, KeyLastSync, 0)
	if err != nil {
		return st, err
	}

	st.TotalReviews = int(total)
	st.FiveStarCount = int(five)
	if last > 0 {
		st.LastSync = time.Unix(last, 0)
	}
	return st, nil
}

// SaveStats stores the statistics of a committed sync.
func (o *Options) SaveStats(ctx context.Context, st models.SyncStats) error {
	if err := SetInt64(ctx, o.store, KeyTotalReviews, int64(st.TotalReviews)); err != nil {
		return err
	}
	if err := SetInt64(ctx, o.store, KeyFiveStarCount, int64(st.FiveStarCount)); err != nil {
		return err
	}
	return SetInt64(ctx, o.store, KeyLastSync, st.LastSync.Unix())
}
