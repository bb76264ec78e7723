// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/tomtom215/reviewsync/internal/logging"
	"github.com/tomtom215/reviewsync/internal/store"
)

var (
	ErrCSRFTokenMissing = errors.New("CSRF token missing")
	ErrCSRFTokenInvalid = errors.New("CSRF token invalid")

	// ErrCSRFTokenExpired covers tokens that were never issued or whose
	// store entry has expired.
	ErrCSRFTokenExpired = errors.New("CSRF token expired")
)

const csrfKeyPrefix = "csrf:"

type csrfTokenKey struct{}

// TokenFromContext returns the token Protect issued or confirmed for a safe
// request, or "".
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenKey{}).(string)
	return token
}

// CSRFConfig holds configuration for CSRF protection middleware.
type CSRFConfig struct {
	CookieName   string
	HeaderName   string
	CookiePath   string
	CookieSecure bool

	// CookieSameSite defaults to Strict.
	CookieSameSite http.SameSite

	// TokenLength is the random byte length of a token.
	TokenLength int
	TokenTTL    time.Duration

	// ExemptPaths skip validation entirely (prefix match).
	ExemptPaths []string

	// ExemptMethods are the safe methods that only receive a token.
	ExemptMethods []string

	// ErrorHandler writes the response when validation fails. Defaults to a
	// bare 403.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// DefaultCSRFConfig returns the defaults used by the admin API.
func DefaultCSRFConfig() *CSRFConfig {
	return &CSRFConfig{
		CookieName:     "_csrf",
		HeaderName:     "X-CSRF-Token",
		CookiePath:     "/",
		CookieSecure:   true,
		CookieSameSite: http.SameSiteStrictMode,
		TokenLength:    32,
		TokenTTL:       24 * time.Hour,
		ExemptMethods:  []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace},
	}
}

// CSRFMiddleware implements the double-submit cookie pattern. Issued tokens
// are recorded in the shared store so any instance can validate them.
type CSRFMiddleware struct {
	config *CSRFConfig
	tokens store.Store
}

// NewCSRFMiddleware fills unset config fields from DefaultCSRFConfig.
func NewCSRFMiddleware(config *CSRFConfig, tokens store.Store) *CSRFMiddleware {
	def := DefaultCSRFConfig()
	if config == nil {
		config = def
	}
	if config.CookieName == "" {
		config.CookieName = def.CookieName
	}
	if config.HeaderName == "" {
		config.HeaderName = def.HeaderName
	}
	if config.CookiePath == "" {
		config.CookiePath = def.CookiePath
	}
	if config.CookieSameSite == 0 {
		config.CookieSameSite = def.CookieSameSite
	}
	if config.TokenLength == 0 {
		config.TokenLength = def.TokenLength
	}
	if config.TokenTTL == 0 {
		config.TokenTTL = def.TokenTTL
	}
	if len(config.ExemptMethods) == 0 {
		config.ExemptMethods = def.ExemptMethods
	}

	return &CSRFMiddleware{config: config, tokens: tokens}
}

// Protect validates the token on state-changing requests and hands out a
// token on safe ones.
func (m *CSRFMiddleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.isExemptPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if m.isExemptMethod(r.Method) {
			token := m.GetToken(w, r)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token)))
			return
		}

		if err := m.validateToken(r); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("CSRF validation failed")
			m.handleError(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetToken returns the request's token when it is still valid, otherwise
// issues a new one and sets the cookie. It returns "" if issuing fails.
func (m *CSRFMiddleware) GetToken(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(m.config.CookieName); err == nil && cookie.Value != "" {
		if m.isValid(r.Context(), cookie.Value) {
			return cookie.Value
		}
	}

	token, err := m.generateToken()
	if err != nil {
		logging.Error().Err(err).Msg("CSRF: failed to generate token")
		return ""
	}
	if err := m.tokens.Set(r.Context(), csrfKeyPrefix+token, []byte{1}, m.config.TokenTTL); err != nil {
		logging.Error().Err(err).Msg("CSRF: failed to store token")
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    token,
		Path:     m.config.CookiePath,
		MaxAge:   int(m.config.TokenTTL.Seconds()),
		Secure:   m.config.CookieSecure,
		HttpOnly: false, // read by the admin client to echo in the header
		SameSite: m.config.CookieSameSite,
	})
	return token
}

func (m *CSRFMiddleware) validateToken(r *http.Request) error {
	cookie, err := r.Cookie(m.config.CookieName)
	if err != nil || cookie.Value == "" {
		return ErrCSRFTokenMissing
	}
	header := r.Header.Get(m.config.HeaderName)
	if header == "" {
		return ErrCSRFTokenMissing
	}

	if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
		return ErrCSRFTokenInvalid
	}
	if !m.isValid(r.Context(), cookie.Value) {
		return ErrCSRFTokenExpired
	}
	return nil
}

func (m *CSRFMiddleware) isValid(ctx context.Context, token string) bool {
	_, err := m.tokens.Get(ctx, csrfKeyPrefix+token)
	return err == nil
}

func (m *CSRFMiddleware) generateToken() (string, error) {
	b := make([]byte, m.config.TokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (m *CSRFMiddleware) isExemptPath(path string) bool {
	for _, exempt := range m.config.ExemptPaths {
		if strings.HasPrefix(path, exempt) {
			return true
		}
	}
	return false
}

func (m *CSRFMiddleware) isExemptMethod(method string) bool {
	return slices.ContainsFunc(m.config.ExemptMethods, func(s string) bool {
		return strings.EqualFold(s, method)
	})
}

func (m *CSRFMiddleware) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if m.config.ErrorHandler != nil {
		m.config.ErrorHandler(w, r, err)
		return
	}
	http.Error(w, err.Error(), http.StatusForbidden)
}
