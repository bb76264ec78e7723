// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package services

import (
	"context"
	"time"

	"github.com/tomtom215/reviewsync/internal/logging"
)

// GarbageCollector is satisfied by *store.BadgerStore and *store.MemoryStore.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// StoreGCService periodically reclaims space held by expired transients such
// as sync locks, cached reviews and CSRF tokens. Badger compacts its value
// log; the memory store drops expired keys.
type StoreGCService struct {
	collector    GarbageCollector
	interval     time.Duration
	discardRatio float64
	name         string
}

// NewStoreGCService runs collector every interval. A non-positive interval
// means 10 minutes.
func NewStoreGCService(collector GarbageCollector, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{
		collector:    collector,
		interval:     interval,
		discardRatio: 0.5,
		name:         "store-gc",
	}
}

// Serve implements suture.Service. GC failures are logged and retried on the
// next tick.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.collector.RunGC(s.discardRatio); err != nil {
				logging.Warn().Err(err).Str("service", s.name).Msg("Store garbage collection failed")
			}
		}
	}
}

func (s *StoreGCService) String() string {
	return s.name
}
