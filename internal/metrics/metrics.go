// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package metrics

import (
	"errors"
	"net"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Sync Operation Metrics
	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of review sync runs in seconds",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120},
		},
	)

	SyncReviewsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_reviews_fetched_total",
			Help: "Total number of reviews fetched by committed sync runs",
		},
	)

	SyncPagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_pages_fetched_total",
			Help: "Total number of review pages fetched from the provider",
		},
	)

	SyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_errors_total",
			Help: "Total number of failed sync runs",
		},
		[]string{"error_type"}, // "auth", "api", "transport", "store", "other"
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_last_success_timestamp",
			Help: "Unix timestamp of last successful sync",
		},
	)

	SyncTotalReviews = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_review_count",
			Help: "Number of reviews in the last committed sync",
		},
	)

	SyncFiveStarReviews = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_five_star_reviews",
			Help: "Number of five-star reviews in the last committed sync",
		},
	)

	// Provider Metrics
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Duration of review provider API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	OAuthTokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oauth_token_refreshes_total",
			Help: "Total number of OAuth access token refresh attempts",
		},
		[]string{"result"}, // "success", "failure"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// ErrorClassifier lets an error name its own sync_errors_total label.
type ErrorClassifier interface {
	MetricLabel() string
}

// RecordSyncOperation records a sync run. On success total and fiveStar
// update the review gauges; on failure err is classified into error_type.
func RecordSyncOperation(duration time.Duration, pages, total, fiveStar int, err error) {
	SyncDuration.Observe(duration.Seconds())
	SyncPagesFetched.Add(float64(pages))

	if err != nil {
		SyncErrors.WithLabelValues(classifySyncError(err)).Inc()
		return
	}

	SyncReviewsFetched.Add(float64(total))
	SyncTotalReviews.Set(float64(total))
	SyncFiveStarReviews.Set(float64(fiveStar))
	SyncLastSuccess.Set(float64(time.Now().Unix()))
}

func classifySyncError(err error) string {
	var c ErrorClassifier
	if errors.As(err, &c) {
		return c.MetricLabel()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return "transport"
	}
	if strings.Contains(err.Error(), "store") {
		return "store"
	}
	return "other"
}

// RecordProviderRequest records one outbound provider call.
func RecordProviderRequest(operation, status string, duration time.Duration) {
	ProviderRequestDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// RecordTokenRefresh records an OAuth refresh attempt.
func RecordTokenRefresh(success bool) {
	if success {
		OAuthTokenRefreshes.WithLabelValues("success").Inc()
	} else {
		OAuthTokenRefreshes.WithLabelValues("failure").Inc()
	}
}

func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}
