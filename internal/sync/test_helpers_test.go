// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package sync

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reviewsync/internal/models"
)

type mockFetcher struct {
	fetchPageFunc    func(ctx context.Context, locationID, pageToken string) (*models.ReviewPage, error)
	listAccountsFunc func(ctx context.Context) (json.RawMessage, error)
	calls            int
}

func (m *mockFetcher) FetchPage(ctx context.Context, locationID, pageToken string) (*models.ReviewPage, error) {
	m.calls++
	return m.fetchPageFunc(ctx, locationID, pageToken)
}

func (m *mockFetcher) ListAccounts(ctx context.Context) (json.RawMessage, error) {
	m.calls++
	if m.listAccountsFunc == nil {
		return json.RawMessage(`{}`), nil
	}
	return m.listAccountsFunc(ctx)
}

type mockTokens struct {
	ensureValidFunc func(ctx context.Context) error
	refreshFunc     func(ctx context.Context, d time.Duration) (bool, error)
	token           string
}

func (m *mockTokens) EnsureValid(ctx context.Context) error {
	if m.ensureValidFunc != nil {
		return m.ensureValidFunc(ctx)
	}
	return nil
}

func (m *mockTokens) AccessToken(ctx context.Context) (string, error) {
	if err := m.EnsureValid(ctx); err != nil {
		return "", err
	}
	return m.token, nil
}

func (m *mockTokens) RefreshIfExpiringWithin(ctx context.Context, d time.Duration) (bool, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, d)
	}
	return false, nil
}

type mockCache struct {
	putFunc func(ctx context.Context, reviews []models.Review, ttl time.Duration) error
	puts    int
	last    []models.Review
	ttl     time.Duration
}

func (m *mockCache) Put(ctx context.Context, reviews []models.Review, ttl time.Duration) error {
	m.puts++
	m.last = reviews
	m.ttl = ttl
	if m.putFunc != nil {
		return m.putFunc(ctx, reviews, ttl)
	}
	return nil
}

func review(rating models.StarRating, created time.Time) models.Review {
	return models.Review{
		Reviewer:   models.Reviewer{DisplayName: "Reviewer"},
		StarRating: rating,
		CreateTime: created,
	}
}
