// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

/*
Package metrics provides Prometheus metrics collection and export.

All collectors are registered on the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Sync:
  - sync_duration_seconds
  - sync_reviews_fetched_total
  - sync_pages_fetched_total
  - sync_errors_total{error_type}
  - sync_last_success_timestamp
  - sync_review_count, sync_five_star_reviews

Provider and OAuth:
  - provider_request_duration_seconds{operation, status}
  - oauth_token_refreshes_total{result}

Cache and circuit breaker:
  - cache_hits_total, cache_misses_total{cache_type}
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_consecutive_failures,
    circuit_breaker_state_transitions_total
*/
package metrics
