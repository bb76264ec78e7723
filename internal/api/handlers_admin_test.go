// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reviewsync/internal/models"
	"github.com/tomtom215/reviewsync/internal/oauth"
	syncpkg "github.com/tomtom215/reviewsync/internal/sync"
)

func TestAdmin_RequiresBasicAuth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	h := env.router(t)

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"no credentials", func(*http.Request) {}},
		{"wrong password", func(r *http.Request) { r.SetBasicAuth(testAdmin, "wrong-password") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/sync/status", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
			if w.Header().Get("WWW-Authenticate") == "" {
				t.Error("WWW-Authenticate header missing")
			}
		})
	}
}

func TestAdmin_PostRequiresCSRF(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.router(t).ServeHTTP(w, adminRequest(http.MethodPost, "/api/v1/admin/cache/clear", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	var body errorBody
	decode(t, w, &body)
	if body.Error.Code != ErrCodeForbidden {
		t.Errorf("code = %q, want %q", body.Error.Code, ErrCodeForbidden)
	}
	if env.reviews.cleared != 0 {
		t.Error("cache cleared without a CSRF token")
	}
}

func TestAdmin_ClearCache(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := adminPost(t, env.router(t), http.MethodPost, "/api/v1/admin/cache/clear", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var body struct {
		Data map[string]string `json:"data"`
	}
	decode(t, w, &body)
	if body.Data["message"] != "Cache cleared successfully" {
		t.Errorf("message = %q", body.Data["message"])
	}
	if env.reviews.cleared != 1 {
		t.Errorf("cleared = %d, want 1", env.reviews.cleared)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", w.Header().Get("Cache-Control"))
	}
}

func TestAdmin_TriggerSync(t *testing.T) {
	t.Parallel()

	last := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	tests := []struct {
		name       string
		result     models.SyncResult
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "success",
			result:     models.SyncResult{Total: 23, FiveStarCount: 20, LastSync: last},
			wantStatus: http.StatusOK,
		},
		{
			name:       "in progress",
			err:        syncpkg.ErrSyncInProgress,
			wantStatus: http.StatusConflict,
			wantCode:   ErrCodeConflict,
			wantMsg:    "Sync already in progress",
		},
		{
			name:       "no business id",
			err:        syncpkg.ErrNotConfigured,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeNotConfigured,
			wantMsg:    "Business ID not configured",
		},
		{
			name:       "refresh rejected",
			err:        fmt.Errorf("%w: invalid_grant", oauth.ErrAuthentication),
			wantStatus: http.StatusUnauthorized,
			wantCode:   ErrCodeUnauthorized,
			wantMsg:    "Authentication required",
		},
		{
			name:       "token endpoint unreachable",
			err:        fmt.Errorf("%w: dial tcp: i/o timeout", oauth.ErrTransport),
			wantStatus: http.StatusUnauthorized,
			wantCode:   ErrCodeUnauthorized,
			wantMsg:    "Authentication required",
		},
		{
			name:       "provider unreachable",
			err:        fmt.Errorf("%w: dial tcp: i/o timeout", syncpkg.ErrTransport),
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrCodeExternalServiceFail,
		},
		{
			name:       "no credentials",
			err:        oauth.ErrNotConfigured,
			wantStatus: http.StatusUnauthorized,
			wantCode:   ErrCodeUnauthorized,
			wantMsg:    "Authentication required",
		},
		{
			name:       "provider error",
			err:        &syncpkg.APIError{StatusCode: 403, Message: "The caller does not have permission"},
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrCodeExternalServiceFail,
		},
		{
			name:       "store failure",
			err:        errors.New("store: set sync flag: closed"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeInternalError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			env.sync.triggerFunc = func(context.Context) (models.SyncResult, error) {
				return tt.result, tt.err
			}

			w := adminPost(t, env.router(t), http.MethodPost, "/api/v1/admin/sync", "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.err == nil {
				var body struct {
					Data SyncResponse `json:"data"`
				}
				decode(t, w, &body)
				want := SyncResponse{TotalReviews: 23, FiveStarCount: 20, LastSync: "2026-06-01 12:00:00"}
				if body.Data != want {
					t.Errorf("data = %+v, want %+v", body.Data, want)
				}
				return
			}

			var body errorBody
			decode(t, w, &body)
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
			if tt.wantMsg != "" && body.Error.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", body.Error.Message, tt.wantMsg)
			}
		})
	}
}

func TestAdmin_SyncStatus(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.sync.statusFunc = func(context.Context) (models.SyncStatus, error) {
		return models.SyncStatus{LastSync: "2026-06-01 12:00:00", TotalReviews: 5, FiveStarCount: 4, NextSync: "Not scheduled", InProgress: true}, nil
	}

	w := httptest.NewRecorder()
	env.router(t).ServeHTTP(w, adminRequest(http.MethodGet, "/api/v1/admin/sync/status", nil))
	var body struct {
		Data models.SyncStatus `json:"data"`
	}
	decode(t, w, &body)
	if !body.Data.InProgress || body.Data.NextSync != "Not scheduled" || body.Data.TotalReviews != 5 {
		t.Errorf("status = %+v", body.Data)
	}
}

func TestAdmin_Disconnect(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	called := false
	env.tokens.disconnectFunc = func(context.Context) error {
		called = true
		return nil
	}

	w := adminPost(t, env.router(t), http.MethodPost, "/api/v1/admin/disconnect", "")
	var body struct {
		Data map[string]string `json:"data"`
	}
	decode(t, w, &body)
	if !called || body.Data["message"] != "Google account disconnected successfully" {
		t.Errorf("called = %v message = %q", called, body.Data["message"])
	}
}

func TestAdmin_RefreshToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"success", nil, http.StatusOK, "Token refreshed successfully"},
		{"rejected", fmt.Errorf("%w: token has been expired or revoked", oauth.ErrAuthentication), http.StatusUnauthorized, ""},
		{"no refresh token", oauth.ErrNotConfigured, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			env.tokens.refreshFunc = func(context.Context) error { return tt.err }

			w := adminPost(t, env.router(t), http.MethodPost, "/api/v1/admin/token/refresh", "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.err == nil {
				var body struct {
					Data map[string]string `json:"data"`
				}
				decode(t, w, &body)
				if body.Data["message"] != tt.wantMsg {
					t.Errorf("message = %q, want %q", body.Data["message"], tt.wantMsg)
				}
				return
			}
			var body errorBody
			decode(t, w, &body)
			if body.Error.Message != tt.err.Error() {
				t.Errorf("message = %q, want %q", body.Error.Message, tt.err.Error())
			}
		})
	}
}

func TestAdmin_TestConnection(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.provider.listAccountsFunc = func(context.Context) (json.RawMessage, error) {
		return json.RawMessage(`{"accounts":[{"name":"accounts/1"}]}`), nil
	}

	w := adminPost(t, env.router(t), http.MethodPost, "/api/v1/admin/connection/test", "")
	var body struct {
		Data struct {
			Accounts []map[string]string `json:"accounts"`
		} `json:"data"`
	}
	decode(t, w, &body)
	if len(body.Data.Accounts) != 1 || body.Data.Accounts[0]["name"] != "accounts/1" {
		t.Errorf("data = %+v", body.Data)
	}
}

func TestAdmin_PagePreview(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	h := env.router(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, adminRequest(http.MethodGet, "/api/v1/admin/reviews/page", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("without business id status = %d, want 400", w.Code)
	}

	settings, _ := env.opts.Settings(context.Background())
	settings.BusinessID = "123"
	if err := env.opts.SaveSettings(context.Background(), settings); err != nil {
		t.Fatal(err)
	}
	var gotLocation, gotToken string
	env.provider.fetchPageFunc = func(_ context.Context, locationID, pageToken string) (*models.ReviewPage, error) {
		gotLocation, gotToken = locationID, pageToken
		return &models.ReviewPage{Reviews: makeReviews(2), NextPageToken: "next"}, nil
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, adminRequest(http.MethodGet, "/api/v1/admin/reviews/page?page_token=abc", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotLocation != "123" || gotToken != "abc" {
		t.Errorf("FetchPage(%q, %q), want (123, abc)", gotLocation, gotToken)
	}
}

func TestAdmin_Settings(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	h := env.router(t)

	w := adminPost(t, h, http.MethodPut, "/api/v1/admin/settings",
		`{"business_id":"accounts/1/locations/2","rows_per_page":25,"default_fields":["author_name","rating"],"client_id":"cid","client_secret":"shh"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var body struct {
		Data struct {
			BusinessID      string   `json:"business_id"`
			RowsPerPage     int      `json:"rows_per_page"`
			DefaultFields   []string `json:"default_fields"`
			CacheTTLHours   int      `json:"cache_ttl_hours"`
			ClientID        string   `json:"client_id"`
			HasClientSecret bool     `json:"has_client_secret"`
			ClientSecret    string   `json:"client_secret"`
		} `json:"data"`
	}
	decode(t, w, &body)
	d := body.Data
	if d.BusinessID != "accounts/1/locations/2" || d.RowsPerPage != 25 || d.CacheTTLHours != 6 {
		t.Errorf("settings = %+v", d)
	}
	if !slices.Equal(d.DefaultFields, []string{"author_name", "rating"}) {
		t.Errorf("default_fields = %v", d.DefaultFields)
	}
	if d.ClientID != "cid" || !d.HasClientSecret || d.ClientSecret != "" {
		t.Errorf("client = %q secret set = %v secret = %q", d.ClientID, d.HasClientSecret, d.ClientSecret)
	}

	creds, err := env.opts.Credentials(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if creds.ClientSecret != "shh" {
		t.Errorf("stored secret = %q, want shh", creds.ClientSecret)
	}
}

func TestAdmin_SettingsValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"rows too high", `{"rows_per_page":101}`, http.StatusBadRequest},
		{"ttl too high", `{"cache_ttl_hours":73}`, http.StatusBadRequest},
		{"unknown field", `{"default_fields":["author_name","photo"]}`, http.StatusBadRequest},
		{"bad json", `{"rows_per_page":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			w := adminPost(t, env.router(t), http.MethodPut, "/api/v1/admin/settings", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			settings, _ := env.opts.Settings(context.Background())
			if settings.RowsPerPage != 10 || settings.CacheTTLHours != 6 {
				t.Errorf("settings changed on rejected update: %+v", settings)
			}
		})
	}
}
