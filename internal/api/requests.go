// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/reviewsync/internal/validation"
)

// ReviewsRequest holds the /api/v1/reviews query.
type ReviewsRequest struct {
	PageNumber int `query:"page_number" validate:"min=1"`
	RowCount   int `query:"row_count" validate:"min=1,max=100"`
}

// EmbedReviewsRequest holds the /embed/reviews query. Fields stays a raw
// comma-separated list; unknown names are dropped when it is parsed. An
// out-of-range rating or unknown order is passed through to the render
// layer, which falls back to the unfiltered newest-first list.
type EmbedReviewsRequest struct {
	Count        int    `query:"count" validate:"min=0,max=1000"`
	ShowAll      bool   `query:"show_all"`
	RowsPerPage  int    `query:"rows_per_page" validate:"min=1,max=100"`
	Fields       string `query:"fields" validate:"max=200"`
	RatingFilter int    `query:"rating_filter"`
	Order        string `query:"order" validate:"max=20"`
	Class        string `query:"class" validate:"max=200"`
}

// EmbedCountRequest holds the /embed/five-star-count query. An unknown
// format renders as a plain number.
type EmbedCountRequest struct {
	Format string `query:"format" validate:"max=20"`
	Prefix string `query:"prefix" validate:"max=200"`
	Suffix string `query:"suffix" validate:"max=200"`
	Class  string `query:"class" validate:"max=200"`
}

// SettingsRequest is the PUT /api/v1/admin/settings body. Nil fields are
// left unchanged.
type SettingsRequest struct {
	BusinessID    *string  `json:"business_id" validate:"omitempty,max=255"`
	RowsPerPage   *int     `json:"rows_per_page" validate:"omitempty,min=1,max=100"`
	DefaultFields []string `json:"default_fields" validate:"omitempty,min=1,dive,review_field"`
	CacheTTLHours *int     `json:"cache_ttl_hours" validate:"omitempty,min=1,max=72"`
	ClientID      *string  `json:"client_id" validate:"omitempty,max=512"`
	ClientSecret  *string  `json:"client_secret" validate:"omitempty,max=512"`
}

// PagePreviewRequest holds the admin page preview query.
type PagePreviewRequest struct {
	PageToken string `query:"page_token" validate:"max=1024"`
}

// validateRequest validates v and writes a VALIDATION_ERROR response on
// failure. It reports whether the request may proceed.
func validateRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
	return false
}

// getIntParam extracts an integer query parameter. A missing value yields
// defaultValue; a malformed one yields -1 so that validation rejects it.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}

// getBoolParam accepts true/1/yes/on in any case.
func getBoolParam(r *http.Request, key string) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key))) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
