// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reviewsync/internal/auth"
	"github.com/tomtom215/reviewsync/internal/models"
	"github.com/tomtom215/reviewsync/internal/store"
)

const (
	testSiteHost = "example.com"
	testAdmin    = "admin"
	testPassword = "correct-horse-battery"
	testSecret   = "0123456789abcdef0123456789abcdef"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type mockReviews struct {
	reviews  []models.Review
	ok       bool
	getErr   error
	clearErr error
	cleared  int
}

func (m *mockReviews) Get(context.Context) ([]models.Review, bool, error) {
	return m.reviews, m.ok, m.getErr
}

func (m *mockReviews) Clear(context.Context) error {
	m.cleared++
	return m.clearErr
}

type mockSync struct {
	triggerFunc func(ctx context.Context) (models.SyncResult, error)
	statusFunc  func(ctx context.Context) (models.SyncStatus, error)
}

func (m *mockSync) TriggerSync(ctx context.Context) (models.SyncResult, error) {
	return m.triggerFunc(ctx)
}

func (m *mockSync) Status(ctx context.Context) (models.SyncStatus, error) {
	if m.statusFunc == nil {
		return models.SyncStatus{LastSync: "Never", NextSync: "Not scheduled"}, nil
	}
	return m.statusFunc(ctx)
}

type mockTokens struct {
	refreshFunc    func(ctx context.Context) error
	authURLFunc    func(ctx context.Context, state string) (string, error)
	exchangeFunc   func(ctx context.Context, code string) error
	disconnectFunc func(ctx context.Context) error
	lastState      string
}

func (m *mockTokens) Refresh(ctx context.Context) error {
	if m.refreshFunc == nil {
		return nil
	}
	return m.refreshFunc(ctx)
}

func (m *mockTokens) AuthCodeURL(ctx context.Context, state string) (string, error) {
	m.lastState = state
	if m.authURLFunc == nil {
		return "https://accounts.example.test/auth?state=" + state, nil
	}
	return m.authURLFunc(ctx, state)
}

func (m *mockTokens) Exchange(ctx context.Context, code string) error {
	if m.exchangeFunc == nil {
		return nil
	}
	return m.exchangeFunc(ctx, code)
}

func (m *mockTokens) Disconnect(ctx context.Context) error {
	if m.disconnectFunc == nil {
		return nil
	}
	return m.disconnectFunc(ctx)
}

type mockProvider struct {
	fetchPageFunc    func(ctx context.Context, locationID, pageToken string) (*models.ReviewPage, error)
	listAccountsFunc func(ctx context.Context) (json.RawMessage, error)
}

func (m *mockProvider) FetchPage(ctx context.Context, locationID, pageToken string) (*models.ReviewPage, error) {
	return m.fetchPageFunc(ctx, locationID, pageToken)
}

func (m *mockProvider) ListAccounts(ctx context.Context) (json.RawMessage, error) {
	return m.listAccountsFunc(ctx)
}

type testEnv struct {
	handler  *Handler
	opts     *store.Options
	reviews  *mockReviews
	sync     *mockSync
	tokens   *mockTokens
	provider *mockProvider
	state    *auth.StateSigner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	signer, err := auth.NewStateSigner(testSecret)
	if err != nil {
		t.Fatalf("NewStateSigner: %v", err)
	}
	env := &testEnv{
		opts:     store.NewOptions(store.NewMemoryStore(), nil),
		reviews:  &mockReviews{},
		sync:     &mockSync{},
		tokens:   &mockTokens{},
		provider: &mockProvider{},
		state:    signer,
	}
	env.handler = NewHandler(Dependencies{
		Options:  env.opts,
		Reviews:  env.reviews,
		Sync:     env.sync,
		Tokens:   env.tokens,
		Provider: env.provider,
		State:    signer,
	})
	env.handler.now = func() time.Time { return testNow }
	return env
}

// router builds the full route tree with rate limiting disabled.
func (env *testEnv) router(t *testing.T) http.Handler {
	t.Helper()
	basic, err := auth.NewBasicAuthManager(testAdmin, testPassword)
	if err != nil {
		t.Fatalf("NewBasicAuthManager: %v", err)
	}
	csrf := auth.NewCSRFMiddleware(&auth.CSRFConfig{ErrorHandler: CSRFErrorHandler}, env.opts.Store())
	chiMW := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	return NewRouter(env.handler, chiMW, basic, csrf, testSiteHost).Setup()
}

func publicRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Origin", "https://"+testSiteHost)
	return req
}

func adminRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.SetBasicAuth(testAdmin, testPassword)
	return req
}

// csrfPair fetches a token through the router and returns it with its cookie.
func csrfPair(t *testing.T, h http.Handler) (string, *http.Cookie) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, adminRequest(http.MethodGet, "/api/v1/admin/csrf-token", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("csrf-token status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"csrf_token"`
		} `json:"data"`
	}
	decode(t, w, &resp)
	for _, c := range w.Result().Cookies() {
		if c.Name == "_csrf" {
			return resp.Data.Token, c
		}
	}
	t.Fatal("csrf-token did not set the _csrf cookie")
	return "", nil
}

// adminPost sends a state-changing admin request with a valid CSRF token.
func adminPost(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	token, cookie := csrfPair(t, h)
	req := adminRequest(method, target, strings.NewReader(body))
	req.Header.Set("X-CSRF-Token", token)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string      `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details"`
	} `json:"error"`
}

func makeReviews(n int) []models.Review {
	reviews := make([]models.Review, n)
	for i := range reviews {
		reviews[i] = models.Review{
			ReviewID:   fmt.Sprintf("r%d", i+1),
			Reviewer:   models.Reviewer{DisplayName: fmt.Sprintf("Reviewer %d", i+1)},
			StarRating: models.StarRatingFive,
			Comment:    "Great",
			CreateTime: testNow.Add(-time.Duration(i+1) * time.Hour),
		}
	}
	return reviews
}
