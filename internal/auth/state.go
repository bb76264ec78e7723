// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StateTTL bounds the time between starting and finishing an OAuth consent.
const StateTTL = 10 * time.Minute

const stateAudience = "reviewsync-oauth-callback"

// ErrInvalidState is returned for tampered, expired or malformed state values.
var ErrInvalidState = errors.New("invalid oauth state")

// StateSigner issues and verifies the OAuth state parameter. The state is
// self-contained, so the callback works on any instance.
type StateSigner struct {
	secret []byte
	now    func() time.Time
}

// NewStateSigner requires a secret of at least 32 bytes.
func NewStateSigner(secret string) (*StateSigner, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("state secret must be at least 32 characters")
	}
	return &StateSigner{secret: []byte(secret), now: time.Now}, nil
}

// Issue returns a signed state naming subject, the admin who started the flow.
func (s *StateSigner) Issue(subject string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Audience:  jwt.ClaimStrings{stateAudience},
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(StateTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, audience and expiry of state and returns its subject.
func (s *StateSigner) Verify(state string) (string, error) {
	if state == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidState)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(state, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithAudience(stateAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if !token.Valid {
		return "", ErrInvalidState
	}
	return claims.Subject, nil
}
