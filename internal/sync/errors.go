// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package sync

import (
	"fmt"
)

type kindError struct {
	msg   string
	label string
}

func (e *kindError) Error() string       { return e.msg }
func (e *kindError) MetricLabel() string { return e.label }

var (
	// ErrNotConfigured is returned when no business location is set.
	ErrNotConfigured error = &kindError{"Business ID not configured", "config"}

	// ErrTransport covers network failures, timeouts and an open circuit.
	ErrTransport error = &kindError{"provider transport error", "transport"}

	// ErrSyncInProgress is returned while another run holds the in-progress flag.
	ErrSyncInProgress error = &kindError{"Sync already in progress", "conflict"}
)

// APIError is a non-2xx response or an error payload from the reviews API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reviews API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) MetricLabel() string { return "api" }

// clientError reports whether the provider rejected the request itself. These
// do not count against the circuit breaker.
func (e *APIError) clientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}
