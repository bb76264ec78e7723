// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

/*
Package middleware provides chi-compatible HTTP middleware shared by every
route group.

  - RequestID: accepts or generates X-Request-ID and puts it, with a fresh
    correlation id, into the logging context
  - PrometheusMetrics: records request count, latency and in-flight gauge,
    labelled by chi route pattern so path parameters do not explode label
    cardinality
  - AccessLog: one debug-level zerolog line per request

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
