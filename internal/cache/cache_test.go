// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/reviewsync/internal/models"
	"github.com/tomtom215/reviewsync/internal/store"
)

func TestReviewCache_PutGetClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := New(store.NewMemoryStore())

	if _, ok, err := c.Get(ctx); ok || err != nil {
		t.Fatalf("Get() on empty cache = %v, %v, want false, nil", ok, err)
	}

	reviews := []models.Review{
		{Reviewer: models.Reviewer{DisplayName: "Ann"}, StarRating: models.StarRatingFive},
		{Reviewer: models.Reviewer{DisplayName: "Bob"}, StarRating: models.StarRatingTwo},
	}
	if err := c.Put(ctx, reviews, time.Hour); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := c.Get(ctx)
	if err != nil || !ok || len(got) != 2 {
		t.Fatalf("Get() = %d reviews, %v, %v, want 2, true, nil", len(got), ok, err)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := c.Get(ctx); ok {
		t.Error("Get() after Clear() ok = true, want false")
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 2 {
		t.Errorf("Stats() = %+v, want 1 hit, 2 misses", st)
	}
}

func TestReviewCache_EmptySetIsCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := New(store.NewMemoryStore())

	if err := c.Put(ctx, nil, time.Hour); err != nil {
		t.Fatalf("Put(nil) error = %v", err)
	}
	got, ok, err := c.Get(ctx)
	if err != nil || !ok || len(got) != 0 {
		t.Errorf("Get() = %v, %v, %v, want empty, true, nil", got, ok, err)
	}
}

func TestReviewCache_TransientExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	s := store.NewMemoryStore()
	s.SetClock(clock)
	c := New(s)
	c.now = clock

	if err := c.Put(ctx, []models.Review{{StarRating: models.StarRatingFour}}, 6*time.Hour); err != nil {
		t.Fatal(err)
	}

	now = now.Add(5 * time.Hour)
	if _, ok, _ := c.Get(ctx); !ok {
		t.Error("Get() before ttl ok = false, want true")
	}

	now = now.Add(time.Hour + time.Second)
	if _, ok, _ := c.Get(ctx); ok {
		t.Error("Get() after ttl ok = true, want false")
	}
}

func TestReviewCache_SharedStoreClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	s := store.NewMemoryStore()
	a := New(s)
	b := New(s)
	a.now = func() time.Time { return now }
	b.now = a.now

	if err := a.Put(ctx, []models.Review{{StarRating: models.StarRatingFive}}, time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := b.Get(ctx); !ok {
		t.Fatal("second process did not see review set")
	}
	if err := a.Clear(ctx); err != nil {
		t.Fatal(err)
	}

	now = now.Add(LocalTTL)
	if _, ok, _ := b.Get(ctx); ok {
		t.Error("second process served cleared set after LocalTTL")
	}
}

func TestReviewCache_RejectsNonPositiveTTL(t *testing.T) {
	t.Parallel()
	c := New(store.NewMemoryStore())
	if err := c.Put(context.Background(), nil, 0); err == nil {
		t.Error("Put() with zero ttl error = nil, want error")
	}
}
