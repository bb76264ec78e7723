// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package api

import (
	"net/http"

	"github.com/tomtom215/reviewsync/internal/logging"
)

// ConnectedRedirect is where the browser lands after a successful consent.
const ConnectedRedirect = "/api/v1/admin/sync/status?connected=1"

// OAuthConnect redirects the admin to the provider consent page with a
// signed state naming them.
func (h *Handler) OAuthConnect(w http.ResponseWriter, r *http.Request) {
	username, _, _ := r.BasicAuth()
	state, err := h.state.Issue(username)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to issue OAuth state")
		WriteError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to start authorization")
		return
	}

	authURL, err := h.tokens.AuthCodeURL(r.Context(), state)
	if err != nil {
		respondError(w, r, err)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// OAuthCallback finishes the consent flow. It is reached by a browser
// redirect from the provider, so the signed state stands in for basic auth.
func (h *Handler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rw := NewResponseWriter(w, r)
	log := logging.Ctx(r.Context())

	if providerErr := q.Get("error"); providerErr != "" {
		log.Warn().Str("error", providerErr).Msg("Provider denied authorization")
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeBadRequest, "Authorization was not granted", providerErr)
		return
	}

	subject, err := h.state.Verify(q.Get("state"))
	if err != nil {
		log.Warn().Err(err).Msg("Rejected OAuth callback state")
		rw.BadRequest("Invalid or expired state")
		return
	}

	code := q.Get("code")
	if code == "" {
		rw.BadRequest("Authorization code missing")
		return
	}

	if err := h.tokens.Exchange(r.Context(), code); err != nil {
		_, errCode := errorStatus(err)
		log.Error().Err(err).Msg("OAuth code exchange failed")
		rw.ErrorWithDetails(http.StatusBadRequest, errCode, "Authorization failed", err.Error())
		return
	}

	log.Info().Str("admin", subject).Msg("OAuth authorization completed")
	http.Redirect(w, r, ConnectedRedirect, http.StatusFound)
}
