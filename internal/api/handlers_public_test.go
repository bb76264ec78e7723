// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/reviewsync/internal/models"
	"github.com/tomtom215/reviewsync/internal/render"
	"github.com/tomtom215/reviewsync/internal/store"
)

type reviewsBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Reviews    []render.ReviewView `json:"reviews"`
		Pagination render.Pagination   `json:"pagination"`
	} `json:"data"`
}

func TestReviews_Pagination(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.reviews.reviews = makeReviews(23)
	env.reviews.ok = true
	h := env.router(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, publicRequest(http.MethodGet, "/api/v1/reviews?page_number=3&row_count=10"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var body reviewsBody
	decode(t, w, &body)
	if !body.Success {
		t.Error("success = false, want true")
	}
	if len(body.Data.Reviews) != 3 {
		t.Errorf("reviews = %d, want 3", len(body.Data.Reviews))
	}
	want := render.Pagination{CurrentPage: 3, PerPage: 10, TotalItems: 23, TotalPages: 3, HasNextPage: false, HasPrevPage: true}
	if body.Data.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", body.Data.Pagination, want)
	}
	if body.Data.Reviews[0].Name != "Reviewer 21" {
		t.Errorf("first name = %q, want Reviewer 21", body.Data.Reviews[0].Name)
	}
}

func TestReviews_PageBeyondEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		page  int
	}{
		{"next after last", "page_number=4&row_count=10", 4},
		{"largest int", "page_number=9223372036854775807&row_count=100", math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			env.reviews.reviews = makeReviews(23)
			env.reviews.ok = true

			w := httptest.NewRecorder()
			env.router(t).ServeHTTP(w, publicRequest(http.MethodGet, "/api/v1/reviews?"+tt.query))
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
			}

			var body reviewsBody
			decode(t, w, &body)
			if body.Data.Reviews == nil || len(body.Data.Reviews) != 0 {
				t.Errorf("reviews = %v, want empty array", body.Data.Reviews)
			}
			p := body.Data.Pagination
			if p.CurrentPage != tt.page || p.TotalItems != 23 || p.HasNextPage || !p.HasPrevPage {
				t.Errorf("pagination = %+v", p)
			}
		})
	}
}

func TestReviews_Defaults(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.reviews.reviews = makeReviews(12)
	env.reviews.ok = true

	w := httptest.NewRecorder()
	env.router(t).ServeHTTP(w, publicRequest(http.MethodGet, "/api/v1/reviews"))

	var body reviewsBody
	decode(t, w, &body)
	if body.Data.Pagination.CurrentPage != 1 || body.Data.Pagination.PerPage != 10 {
		t.Errorf("pagination = %+v, want page 1 of 10", body.Data.Pagination)
	}
	if len(body.Data.Reviews) != 10 || !body.Data.Pagination.HasNextPage {
		t.Errorf("reviews = %d has_next = %v, want 10 true", len(body.Data.Reviews), body.Data.Pagination.HasNextPage)
	}
}

func TestReviews_NoData(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.router(t).ServeHTTP(w, publicRequest(http.MethodGet, "/api/v1/reviews?page_number=2&row_count=5"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body reviewsBody
	decode(t, w, &body)
	if body.Success || body.Message != "No reviews data available" {
		t.Errorf("success = %v message = %q", body.Success, body.Message)
	}
	if body.Data.Reviews == nil || len(body.Data.Reviews) != 0 {
		t.Errorf("reviews = %v, want empty array", body.Data.Reviews)
	}
	want := render.Pagination{CurrentPage: 2, PerPage: 5}
	if body.Data.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", body.Data.Pagination, want)
	}
}

func TestReviews_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		wantField string
	}{
		{"page zero", "page_number=0", "page_number"},
		{"row count too high", "row_count=101", "row_count"},
		{"row count not a number", "row_count=ten", "row_count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			w := httptest.NewRecorder()
			env.router(t).ServeHTTP(w, publicRequest(http.MethodGet, "/api/v1/reviews?"+tt.query))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var body errorBody
			decode(t, w, &body)
			if body.Error.Code != ErrCodeValidationFailed {
				t.Errorf("code = %q, want %q", body.Error.Code, ErrCodeValidationFailed)
			}
			details, _ := body.Error.Details.(map[string]interface{})
			if details["field"] != tt.wantField {
				t.Errorf("field = %v, want %s", details["field"], tt.wantField)
			}
		})
	}
}

func TestReviews_StoreError(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.reviews.getErr = errors.New("disk gone")

	w := httptest.NewRecorder()
	env.router(t).ServeHTTP(w, publicRequest(http.MethodGet, "/api/v1/reviews"))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestFiveStarCount(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	if err := env.opts.SaveStats(context.Background(), models.SyncStats{TotalReviews: 60, FiveStarCount: 47, LastSync: testNow}); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	env.router(t).ServeHTTP(w, publicRequest(http.MethodGet, "/api/v1/reviews/5star-count"))

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	decode(t, w, &body)
	if !body.Success || body.Data["five_star_count"] != 47 {
		t.Errorf("body = %+v, want five_star_count 47", body)
	}
}

type statsBody struct {
	Success bool         `json:"success"`
	Data    StatsPayload `json:"data"`
}

func TestStats_NeverSynced(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.router(t).ServeHTTP(w, publicRequest(http.MethodGet, "/api/v1/reviews/stats"))

	var body statsBody
	decode(t, w, &body)
	if body.Data.ConnectionStatus != "not_connected" {
		t.Errorf("connection_status = %q, want not_connected", body.Data.ConnectionStatus)
	}
	if body.Data.LastSync.Timestamp != 0 || body.Data.LastSync.Formatted != nil || body.Data.LastSync.Relative != nil {
		t.Errorf("last_sync = %+v, want zero with null strings", body.Data.LastSync)
	}
	if body.Data.HasError || body.Data.ErrorMessage != nil {
		t.Errorf("has_error = %v error_message = %v", body.Data.HasError, body.Data.ErrorMessage)
	}
}

func TestStats_Connected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		expiry     time.Time
		businessID string
		want       string
	}{
		{"valid token and business", testNow.Add(time.Hour), "123", "connected"},
		{"no business id", testNow.Add(time.Hour), "", "not_connected"},
		{"inside refresh buffer", testNow.Add(5 * time.Minute), "123", "not_connected"},
		{"expired", testNow.Add(-time.Minute), "123", "not_connected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			ctx := context.Background()
			if err := env.opts.SaveTokens(ctx, "access", "refresh", tt.expiry); err != nil {
				t.Fatal(err)
			}
			if err := store.SetString(ctx, env.opts.Store(), store.KeyBusinessID, tt.businessID, 0); err != nil {
				t.Fatal(err)
			}

			w := httptest.NewRecorder()
			env.router(t).ServeHTTP(w, publicRequest(http.MethodGet, "/api/v1/reviews/stats"))
			var body statsBody
			decode(t, w, &body)
			if body.Data.ConnectionStatus != tt.want {
				t.Errorf("connection_status = %q, want %q", body.Data.ConnectionStatus, tt.want)
			}
		})
	}
}

func TestStats_LastErrorAndTotals(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	last := testNow.Add(-2 * time.Hour)
	if err := env.opts.SaveStats(ctx, models.SyncStats{TotalReviews: 60, FiveStarCount: 47, LastSync: last}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetString(ctx, env.opts.Store(), store.KeyLastSyncError, "Authentication failed", time.Hour); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	env.router(t).ServeHTTP(w, publicRequest(http.MethodGet, "/api/v1/reviews/stats"))
	var body statsBody
	decode(t, w, &body)

	if body.Data.Totals != (StatsTotals{TotalReviews: 60, FiveStarCount: 47}) {
		t.Errorf("totals = %+v", body.Data.Totals)
	}
	if body.Data.LastSync.Timestamp != last.Unix() {
		t.Errorf("timestamp = %d, want %d", body.Data.LastSync.Timestamp, last.Unix())
	}
	if body.Data.LastSync.Relative == nil || *body.Data.LastSync.Relative != "2 hours ago" {
		t.Errorf("relative = %v, want 2 hours ago", body.Data.LastSync.Relative)
	}
	if !body.Data.HasError || body.Data.ErrorMessage == nil || *body.Data.ErrorMessage != "Authentication failed" {
		t.Errorf("has_error = %v error_message = %v", body.Data.HasError, body.Data.ErrorMessage)
	}
}
