// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

// Package services adapts Reviewsync components to suture.Service.
//
//   - SyncService: Start/Stop lifecycle of the sync manager
//   - HTTPServerService: ListenAndServe/Shutdown of the API server
//   - StoreGCService: periodic badger value-log GC
package services
