// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

// Package oauth manages the Google OAuth credentials used to read reviews.
//
// Manager is the only writer of access tokens, refresh tokens and their
// expiry. Token exchange and refresh go through golang.org/x/oauth2; the
// values themselves live in the option store so they survive restarts and
// are shared between processes.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/tomtom215/reviewsync/internal/config"
	"github.com/tomtom215/reviewsync/internal/logging"
	"github.com/tomtom215/reviewsync/internal/metrics"
	"github.com/tomtom215/reviewsync/internal/models"
	"github.com/tomtom215/reviewsync/internal/store"
)

// Scope grants read and reply access to business profile reviews.
const Scope = "https://www.googleapis.com/auth/business.manage"

const (
	// ValidityBuffer is how long before expiry a token stops being usable.
	ValidityBuffer = 5 * time.Minute

	defaultExpiresIn = 3600 * time.Second
)

// ReviewClearer drops cached reviews when the account is disconnected.
type ReviewClearer interface {
	Clear(ctx context.Context) error
}

// Manager is safe for concurrent use. Concurrent refreshes are not
// coalesced; the last writer wins.
type Manager struct {
	opts        *store.Options
	reviews     ReviewClearer
	endpoint    oauth2.Endpoint
	redirectURL string
	client      *http.Client
	now         func() time.Time
}

// NewManager builds a Manager from the google section of cfg. reviews may be nil.
func NewManager(cfg *config.Config, opts *store.Options, reviews ReviewClearer) *Manager {
	timeout := cfg.Google.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Manager{
		opts:    opts,
		reviews: reviews,
		endpoint: oauth2.Endpoint{
			AuthURL:   cfg.Google.AuthURL,
			TokenURL:  cfg.Google.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		redirectURL: cfg.OAuthRedirectURL(),
		client:      &http.Client{Timeout: timeout},
		now:         time.Now,
	}
}

// SetHTTPClient replaces the client used for token endpoint calls.
func (m *Manager) SetHTTPClient(c *http.Client) {
	m.client = c
}

// SetClock replaces the time source.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// TokenValid reports whether c carries an access token that is still usable
// at now. A token expiring exactly at now+ValidityBuffer is not.
func TokenValid(c models.Credentials, now time.Time) bool {
	return c.AccessToken != "" && c.Expiry.After(now.Add(ValidityBuffer))
}

// IsValid reports whether the stored access token is usable. Store errors
// count as invalid.
func (m *Manager) IsValid(ctx context.Context) bool {
	c, err := m.opts.Credentials(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to load credentials")
		return false
	}
	return TokenValid(c, m.now())
}

// EnsureValid refreshes the access token unless it is already valid.
func (m *Manager) EnsureValid(ctx context.Context) error {
	c, err := m.opts.Credentials(ctx)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	if TokenValid(c, m.now()) {
		return nil
	}
	return m.refresh(ctx, c)
}

// AccessToken returns a valid access token, refreshing it first if needed.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	if err := m.EnsureValid(ctx); err != nil {
		return "", err
	}
	c, err := m.opts.Credentials(ctx)
	if err != nil {
		return "", fmt.Errorf("load credentials: %w", err)
	}
	return c.AccessToken, nil
}

// Refresh exchanges the refresh token for a new access token regardless of
// the current token's validity.
func (m *Manager) Refresh(ctx context.Context) error {
	c, err := m.opts.Credentials(ctx)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	return m.refresh(ctx, c)
}

// RefreshIfExpiringWithin refreshes when the stored token expires within d.
// It does nothing, and reports false, when no refresh token is stored.
func (m *Manager) RefreshIfExpiringWithin(ctx context.Context, d time.Duration) (bool, error) {
	c, err := m.opts.Credentials(ctx)
	if err != nil {
		return false, fmt.Errorf("load credentials: %w", err)
	}
	if c.RefreshToken == "" {
		return false, nil
	}
	if c.Expiry.After(m.now().Add(d)) {
		return false, nil
	}
	if err := m.refresh(ctx, c); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) refresh(ctx context.Context, c models.Credentials) error {
	if c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "" {
		return ErrNotConfigured
	}

	// An expired seed token forces x/oauth2 to hit the token endpoint.
	seed := &oauth2.Token{RefreshToken: c.RefreshToken, Expiry: time.Unix(1, 0)}
	tok, err := m.config(c).TokenSource(m.clientContext(ctx), seed).Token()
	if err != nil {
		metrics.RecordTokenRefresh(false)
		err = classify(err)
		logging.Ctx(ctx).Error().Err(err).Msg("Token refresh failed")
		return err
	}
	metrics.RecordTokenRefresh(true)

	expiry := m.expiry(tok)
	if err := m.opts.SaveTokens(ctx, tok.AccessToken, rotated(tok, c.RefreshToken), expiry); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	logging.Ctx(ctx).Info().Time("expires", expiry).Msg("Access token refreshed")
	return nil
}

// rotated returns the refresh token to persist: the provider's new one, or
// "" to keep the stored value.
func rotated(tok *oauth2.Token, current string) string {
	if tok.RefreshToken == "" || tok.RefreshToken == current {
		return ""
	}
	return tok.RefreshToken
}

// AuthCodeURL returns the provider consent URL carrying state.
func (m *Manager) AuthCodeURL(ctx context.Context, state string) (string, error) {
	c, err := m.opts.Credentials(ctx)
	if err != nil {
		return "", fmt.Errorf("load credentials: %w", err)
	}
	if c.ClientID == "" {
		return "", ErrNotConfigured
	}
	return m.config(c).AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

// Exchange trades an authorization code for tokens and stores them.
func (m *Manager) Exchange(ctx context.Context, code string) error {
	if code == "" {
		return errors.New("authorization code is empty")
	}
	c, err := m.opts.Credentials(ctx)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrNotConfigured
	}

	tok, err := m.config(c).Exchange(m.clientContext(ctx), code)
	if err != nil {
		err = classify(err)
		logging.Ctx(ctx).Error().Err(err).Msg("Authorization code exchange failed")
		return err
	}

	expiry := m.expiry(tok)
	if err := m.opts.SaveTokens(ctx, tok.AccessToken, tok.RefreshToken, expiry); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	logging.Ctx(ctx).Info().
		Bool("refresh_token", tok.RefreshToken != "").
		Time("expires", expiry).
		Msg("Google account connected")
	return nil
}

// Disconnect deletes the stored tokens and the cached reviews. The client
// id and secret are kept.
func (m *Manager) Disconnect(ctx context.Context) error {
	if err := m.opts.ClearTokens(ctx); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	if m.reviews != nil {
		if err := m.reviews.Clear(ctx); err != nil {
			return err
		}
	}
	logging.Ctx(ctx).Info().Msg("Google account disconnected")
	return nil
}

func (m *Manager) config(c models.Credentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     m.endpoint,
		RedirectURL:  m.redirectURL,
		Scopes:       []string{Scope},
	}
}

func (m *Manager) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, m.client)
}

func (m *Manager) expiry(tok *oauth2.Token) time.Time {
	if tok.Expiry.IsZero() {
		return m.now().Add(defaultExpiresIn)
	}
	return tok.Expiry
}
