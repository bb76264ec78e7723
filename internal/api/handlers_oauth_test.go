// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/tomtom215/reviewsync/internal/oauth"
)

func TestOAuthConnect_RedirectsWithSignedState(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.router(t).ServeHTTP(w, adminRequest(http.MethodGet, "/api/v1/admin/oauth/connect", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302: %s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Header().Get("Location"), "https://accounts.example.test/auth?state=") {
		t.Errorf("Location = %q", w.Header().Get("Location"))
	}

	subject, err := env.state.Verify(env.tokens.lastState)
	if err != nil {
		t.Fatalf("Verify(issued state) error = %v", err)
	}
	if subject != testAdmin {
		t.Errorf("subject = %q, want %q", subject, testAdmin)
	}
}

func TestOAuthConnect_NotConfigured(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.tokens.authURLFunc = func(context.Context, string) (string, error) {
		return "", oauth.ErrNotConfigured
	}

	w := httptest.NewRecorder()
	env.router(t).ServeHTTP(w, adminRequest(http.MethodGet, "/api/v1/admin/oauth/connect", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestOAuthCallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		query       func(state string) url.Values
		exchangeErr error
		wantStatus  int
		wantMsg     string
	}{
		{
			name:       "success",
			query:      func(s string) url.Values { return url.Values{"state": {s}, "code": {"auth-code"}} },
			wantStatus: http.StatusFound,
		},
		{
			name:       "tampered state",
			query:      func(s string) url.Values { return url.Values{"state": {s + "x"}, "code": {"auth-code"}} },
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid or expired state",
		},
		{
			name:       "missing code",
			query:      func(s string) url.Values { return url.Values{"state": {s}} },
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Authorization code missing",
		},
		{
			name:       "consent denied",
			query:      func(s string) url.Values { return url.Values{"state": {s}, "error": {"access_denied"}} },
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Authorization was not granted",
		},
		{
			name:        "exchange rejected",
			query:       func(s string) url.Values { return url.Values{"state": {s}, "code": {"stale"}} },
			exchangeErr: fmt.Errorf("%w: invalid_grant", oauth.ErrAuthentication),
			wantStatus:  http.StatusBadRequest,
			wantMsg:     "Authorization failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			var gotCode string
			env.tokens.exchangeFunc = func(_ context.Context, code string) error {
				gotCode = code
				return tt.exchangeErr
			}
			state, err := env.state.Issue(testAdmin)
			if err != nil {
				t.Fatal(err)
			}

			// The provider redirect carries no basic auth credentials.
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/oauth/callback?"+tt.query(state).Encode(), nil)
			w := httptest.NewRecorder()
			env.router(t).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusFound {
				if loc := w.Header().Get("Location"); loc != ConnectedRedirect {
					t.Errorf("Location = %q, want %q", loc, ConnectedRedirect)
				}
				if gotCode != "auth-code" {
					t.Errorf("Exchange code = %q, want auth-code", gotCode)
				}
				return
			}
			var body errorBody
			decode(t, w, &body)
			if body.Error.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", body.Error.Message, tt.wantMsg)
			}
		})
	}
}
