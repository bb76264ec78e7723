// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/reviewsync/internal/logging"
	"github.com/tomtom215/reviewsync/internal/oauth"
	syncpkg "github.com/tomtom215/reviewsync/internal/sync"
)

// errorStatus maps a sync or oauth error to its HTTP status and error code.
func errorStatus(err error) (int, string) {
	var apiErr *syncpkg.APIError
	switch {
	case errors.Is(err, syncpkg.ErrSyncInProgress):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, syncpkg.ErrNotConfigured), errors.Is(err, oauth.ErrNotConfigured):
		return http.StatusBadRequest, ErrCodeNotConfigured
	case errors.Is(err, oauth.ErrAuthentication):
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case errors.Is(err, syncpkg.ErrTransport), errors.Is(err, oauth.ErrTransport), errors.As(err, &apiErr):
		return http.StatusBadGateway, ErrCodeExternalServiceFail
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeExternalServiceFail
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// respondError writes err with the status errorStatus picks. Internal errors
// get a generic message; everything else carries err's text.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	rw := NewResponseWriter(w, r)
	if status == http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Request failed")
		rw.Error(status, code, "An internal error occurred")
		return
	}
	logging.Ctx(r.Context()).Warn().Err(err).Int("status", status).Msg("Request failed")
	rw.Error(status, code, err.Error())
}

// respondSyncError writes a failed manual sync. A token that is missing or
// cannot be refreshed, whether rejected or unreachable, reads
// "Authentication required"; the underlying message moves to details.
func respondSyncError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, oauth.ErrNotConfigured) || errors.Is(err, oauth.ErrAuthentication) ||
		errors.Is(err, oauth.ErrTransport) {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Manual sync needs authentication")
		NewResponseWriter(w, r).ErrorWithDetails(http.StatusUnauthorized, ErrCodeUnauthorized,
			"Authentication required", err.Error())
		return
	}
	respondError(w, r, err)
}
