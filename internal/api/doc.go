// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

/*
Package api provides the HTTP layer for Reviewsync.

Key Components:

  - Router: chi route tree and middleware stack
  - Handler: request handlers, split by audience across handlers_*.go
  - ResponseWriter: the JSON envelope shared by admin and error responses
  - ChiMiddleware: CORS (go-chi/cors) and rate limiting (go-chi/httprate)
  - SameOrigin: restricts public and embed routes to the configured site

Route groups:

 1. Public API (/api/v1/reviews...): read-only JSON for the site's script.
    Responses keep the success/message/data shape.

 2. Embed (/embed/...): HTML fragments for the reviews list and the
    five-star count.

 3. Admin (/api/v1/admin/...): HTTP Basic auth plus a double-submit CSRF
    token on state-changing requests. Covers cache, sync, settings, token
    and OAuth consent operations. The OAuth callback is the one admin route
    without basic auth; its signed state carries the admin identity.

 4. Operational: /health/live, /health/ready and /metrics.

Error mapping:

Sync and OAuth errors are matched with errors.Is/As in errors.go. A sync
already running maps to 409, missing configuration to 400, failed
authentication to 401, and provider or transport failures to 502.
*/
package api
