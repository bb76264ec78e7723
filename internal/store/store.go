// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

// Package store is the persistent key/value layer behind credentials,
// settings, statistics and transients.
//
// Every value is stored under one key. A positive TTL makes the entry a
// transient that the backend expires on its own; a zero TTL stores it
// indefinitely. Writes are atomic per key and there are no multi-key
// transactions.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("store: key not found")

// Store is implemented by the badger, redis and memory backends.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
	Close() error
}

// Keys used by Reviewsync. Option keys never expire; transient keys are
// always written with a TTL.
const (
	KeyClientID     = "option:google_client_id"
	KeyClientSecret = "option:google_client_secret"
	KeyAccessToken  = "option:google_access_token"
	KeyRefreshToken = "option:google_refresh_token"
	KeyTokenExpires = "option:google_token_expires"

	KeyBusinessID    = "option:business_id"
	KeyRowsPerPage   = "option:default_rows_per_page"
	KeyDefaultFields = "option:default_fields"
	KeyCacheTTLHours = "option:cache_ttl_hours"

	KeyLastSync      = "option:last_sync"
	KeyTotalReviews  = "option:total_reviews"
	KeyFiveStarCount = "option:five_star_count"

	KeyReviewsData    = "reviews:data"
	KeySyncInProgress = "transient:sync_in_progress"
	KeyLastSyncError  = "transient:last_sync_error"
)

// GetString returns the value of key, or "" when it is absent.
func GetString(ctx context.Context, s Store, key string) (string, error) {
	b, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func SetString(ctx context.Context, s Store, key, value string, ttl time.Duration) error {
	return s.Set(ctx, key, []byte(value), ttl)
}

// GetInt64 returns the integer under key, or def when it is absent.
func GetInt64(ctx context.Context, s Store, key string, def int64) (int64, error) {
	v, err := GetString(ctx, s, key)
	if err != nil || v == "" {
		return def, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func SetInt64(ctx context.Context, s Store, key string, value int64) error {
	return s.Set(ctx, key, []byte(strconv.FormatInt(value, 10)), 0)
}

// GetJSON decodes the value under key into dst. found is false when the key
// is absent, in which case dst is untouched.
func GetJSON(ctx context.Context, s Store, key string, dst interface{}) (found bool, err error) {
	b, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, s Store, key string, v interface{}, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, b, ttl)
}
