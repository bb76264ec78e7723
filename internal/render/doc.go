// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

// Package render turns the cached review set into what visitors see: HTML
// fragments for the embed endpoints and JSON views for the public API.
//
// Everything here is a pure function of its inputs. Callers load the review
// set, statistics and settings from the store and pass them in.
//
// HTML is produced with html/template, so reviewer names, comments, replies,
// prefixes and suffixes are always escaped. CSS classes supplied by the embed
// caller are additionally restricted to [A-Za-z0-9_-].
package render
