// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

// Package auth guards the administrative API.
//
// Three mechanisms are provided:
//   - BasicAuthManager: HTTP Basic credentials checked against a bcrypt hash
//   - CSRFMiddleware: double-submit cookie tokens for state-changing requests
//   - StateSigner: short-lived HS256 JWTs used as the OAuth state parameter
package auth
