// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

/*
Package sync keeps the cached review set in step with the reviews provider.

Components:
  - Client: paginated GET against the Business Profile reviews API, paced
    by a golang.org/x/time/rate limiter
  - CircuitBreakerClient: gobreaker wrapper that fails fast while the
    provider is unavailable
  - Orchestrator: one sync run with the in-progress flag, the page cap,
    the inter-page pause and the all-or-nothing commit
  - Manager: the daily sync loop and the hourly token refresh loop

A run either replaces the whole cached set and its statistics or leaves
both untouched. Errors are returned, never retried; the next scheduled run
is the retry.
*/
package sync
