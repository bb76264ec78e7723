// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

// Package testinfra starts Docker containers for integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/store/...
//
// # Redis Container
//
// StartRedis backs the rueidis store tests. It skips without Docker and
// terminates the container through t.Cleanup:
//
//	func TestRedisStore(t *testing.T) {
//	    rc := testinfra.StartRedis(t)
//	    s, err := store.OpenRedis(store.RedisOptions{Addr: rc.Addr})
//	    // ...
//	}
//
// NewRedisContainer is the lower-level form for callers that manage the
// container lifetime themselves.
package testinfra
