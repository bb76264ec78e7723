// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package models

import "time"

// SyncStats are derived from the last committed review set. They are stored
// without expiry so they outlive the cache.
type SyncStats struct {
	TotalReviews  int       `json:"total_reviews"`
	FiveStarCount int       `json:"five_star_count"`
	LastSync      time.Time `json:"last_sync"`
}

// SyncResult is returned by a completed sync run.
type SyncResult struct {
	Total         int       `json:"total"`
	FiveStarCount int       `json:"five_star_count"`
	LastSync      time.Time `json:"last_sync"`
	Pages         int       `json:"pages"`
	Truncated     bool      `json:"truncated"`
}

// SyncStatus is the admin view of the scheduler and last run.
type SyncStatus struct {
	LastSync      string `json:"last_sync"`
	TotalReviews  int    `json:"total_reviews"`
	FiveStarCount int    `json:"five_star_count"`
	NextSync      string `json:"next_sync"`
	InProgress    bool   `json:"in_progress"`
}

// Credentials are the OAuth client and token values.
type Credentials struct {
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"-"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	Expiry       time.Time `json:"expiry"`
}

// DisplaySettings are the editable presentation and sync target settings.
type DisplaySettings struct {
	BusinessID    string   `json:"business_id"`
	RowsPerPage   int      `json:"rows_per_page"`
	DefaultFields []string `json:"default_fields"`
	CacheTTLHours int      `json:"cache_ttl_hours"`
}
