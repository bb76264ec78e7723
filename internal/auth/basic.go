// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is applied once at startup.
const bcryptCost = 12

// BasicAuthManager handles HTTP Basic Authentication for the admin user.
type BasicAuthManager struct {
	username     string
	passwordHash []byte
	realm        string
}

// NewBasicAuthManager hashes password so requests never see the plain text.
func NewBasicAuthManager(username, password string) (*BasicAuthManager, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &BasicAuthManager{
		username:     username,
		passwordHash: hash,
		realm:        "Reviewsync",
	}, nil
}

// ValidateCredentials checks an Authorization header and returns the user name.
func (m *BasicAuthManager) ValidateCredentials(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, "Basic ") {
		return "", fmt.Errorf("invalid authorization header format")
	}

	credentials, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(authHeader, "Basic "))
	if err != nil {
		return "", fmt.Errorf("failed to decode credentials")
	}

	username, password, ok := strings.Cut(string(credentials), ":")
	if !ok {
		return "", fmt.Errorf("invalid credentials format")
	}

	if !m.validateUsernamePassword(username, password) {
		return "", fmt.Errorf("invalid username or password")
	}
	return username, nil
}

// validateUsernamePassword always runs both comparisons.
func (m *BasicAuthManager) validateUsernamePassword(username, password string) bool {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) == nil
	return usernameMatch && passwordMatch
}

// WWWAuthenticateHeader is sent with every 401 response.
func (m *BasicAuthManager) WWWAuthenticateHeader() string {
	return fmt.Sprintf("Basic realm=%q, charset=\"UTF-8\"", m.realm)
}

// Require rejects requests without valid credentials. onFail writes the
// 401 body; the WWW-Authenticate header is set before it is called.
func (m *BasicAuthManager) Require(onFail func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := m.ValidateCredentials(r.Header.Get("Authorization")); err != nil {
				w.Header().Set("WWW-Authenticate", m.WWWAuthenticateHeader())
				onFail(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
