// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

// Package cache holds the last committed review set.
//
// The review set lives in the store as a transient so every process sharing
// the store sees the same data. Each process additionally keeps a decoded
// copy in memory for at most LocalTTL so rendering does not decode JSON on
// every request.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/reviewsync/internal/metrics"
	"github.com/tomtom215/reviewsync/internal/models"
	"github.com/tomtom215/reviewsync/internal/store"
)

// LocalTTL bounds how long a process serves its in-memory copy before
// reading the shared store again.
const LocalTTL = 30 * time.Second

const metricsLabel = "reviews"

type entry struct {
	reviews   []models.Review
	expiresAt time.Time
}

// Stats tracks cache performance.
type Stats struct {
	Hits   int64
	Misses int64
}

// ReviewCache is safe for concurrent use.
type ReviewCache struct {
	store store.Store
	now   func() time.Time

	mu    sync.RWMutex
	local *entry
	stats Stats
}

func New(s store.Store) *ReviewCache {
	return &ReviewCache{store: s, now: time.Now}
}

// Get returns the cached review set. ok is false when nothing is cached or
// the transient has expired. A cached empty set returns ok with no reviews.
func (c *ReviewCache) Get(ctx context.Context) (reviews []models.Review, ok bool, err error) {
	c.mu.RLock()
	local := c.local
	c.mu.RUnlock()

	if local != nil && c.now().Before(local.expiresAt) {
		c.hit()
		return local.reviews, true, nil
	}

	var stored []models.Review
	found, err := store.GetJSON(ctx, c.store, store.KeyReviewsData, &stored)
	if err != nil {
		return nil, false, fmt.Errorf("read review cache: %w", err)
	}
	if !found {
		c.miss()
		c.mu.Lock()
		c.local = nil
		c.mu.Unlock()
		return nil, false, nil
	}

	c.hit()
	c.remember(stored)
	return stored, true, nil
}

// Put replaces the cached review set. The store expires it after ttl.
func (c *ReviewCache) Put(ctx context.Context, reviews []models.Review, ttl time.Duration) error {
	if reviews == nil {
		reviews = []models.Review{}
	}
	if ttl <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %v", ttl)
	}
	if err := store.SetJSON(ctx, c.store, store.KeyReviewsData, reviews, ttl); err != nil {
		return fmt.Errorf("write review cache: %w", err)
	}
	c.remember(reviews)
	return nil
}

// Clear deletes the cached review set. Statistics are left untouched.
func (c *ReviewCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.local = nil
	c.mu.Unlock()

	if err := c.store.Delete(ctx, store.KeyReviewsData); err != nil {
		return fmt.Errorf("clear review cache: %w", err)
	}
	return nil
}

// Stats returns a snapshot of hit and miss counters.
func (c *ReviewCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

func (c *ReviewCache) remember(reviews []models.Review) {
	c.mu.Lock()
	c.local = &entry{reviews: reviews, expiresAt: c.now().Add(LocalTTL)}
	c.mu.Unlock()
}

func (c *ReviewCache) hit() {
	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
	metrics.RecordCacheHit(metricsLabel)
}

func (c *ReviewCache) miss() {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
	metrics.RecordCacheMiss(metricsLabel)
}
