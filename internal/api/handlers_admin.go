// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reviewsync/internal/auth"
	"github.com/tomtom215/reviewsync/internal/logging"
	"github.com/tomtom215/reviewsync/internal/models"
	syncpkg "github.com/tomtom215/reviewsync/internal/sync"
)

const maxSettingsBody = 64 << 10

// SyncResponse is the data of a completed manual sync.
type SyncResponse struct {
	TotalReviews  int    `json:"total_reviews"`
	FiveStarCount int    `json:"five_star_count"`
	LastSync      string `json:"last_sync"`
	Truncated     bool   `json:"truncated,omitempty"`
}

// SettingsView is the data of GET and PUT /settings. The client secret is
// never returned.
type SettingsView struct {
	models.DisplaySettings
	ClientID        string `json:"client_id"`
	HasClientSecret bool   `json:"has_client_secret"`
	TokenExpires    string `json:"token_expires"`
}

// CSRFToken returns the anti-forgery token set in the _csrf cookie.
func (h *Handler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{
		"csrf_token": auth.TokenFromContext(r.Context()),
	})
}

// ClearCache drops the cached review set. Statistics are kept.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.reviews.Clear(r.Context()); err != nil {
		rw.StoreError(err)
		return
	}
	logging.Ctx(r.Context()).Info().Msg("Review cache cleared")
	rw.Message("Cache cleared successfully")
}

// TestConnection lists the accounts visible to the stored token and returns
// the provider's answer unchanged.
func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.provider.ListAccounts(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(accounts)
}

// TriggerSync runs a sync now and waits for it.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	result, err := h.sync.TriggerSync(r.Context())
	if err != nil {
		respondSyncError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(SyncResponse{
		TotalReviews:  result.Total,
		FiveStarCount: result.FiveStarCount,
		LastSync:      syncpkg.FormatSyncTime(result.LastSync, "Never"),
		Truncated:     result.Truncated,
	})
}

// SyncStatus reports the last and next sync times with the saved totals.
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	status, err := h.sync.Status(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.Success(status)
}

// Disconnect forgets the provider tokens and the cached reviews.
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.tokens.Disconnect(r.Context()); err != nil {
		rw.StoreError(err)
		return
	}
	logging.Ctx(r.Context()).Info().Msg("Provider account disconnected")
	rw.Message("Google account disconnected successfully")
}

// RefreshToken forces a token refresh regardless of expiry.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	if err := h.tokens.Refresh(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Message("Token refreshed successfully")
}

// PagePreview fetches a single provider page for the stored location
// without touching the cache.
func (h *Handler) PagePreview(w http.ResponseWriter, r *http.Request) {
	req := PagePreviewRequest{PageToken: r.URL.Query().Get("page_token")}
	if !validateRequest(w, r, &req) {
		return
	}

	rw := NewResponseWriter(w, r)
	businessID, err := h.opts.BusinessID(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}
	if businessID == "" {
		respondError(w, r, syncpkg.ErrNotConfigured)
		return
	}

	page, err := h.provider.FetchPage(r.Context(), businessID, req.PageToken)
	if err != nil {
		respondError(w, r, err)
		return
	}
	rw.Success(page)
}

// GetSettings returns the stored display and provider settings. The client
// secret is never echoed, only whether one is set.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	view, err := h.settingsView(r)
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.Success(view)
}

// UpdateSettings applies the non-nil fields of a SettingsRequest.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rw := NewResponseWriter(w, r)

	var req SettingsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSettingsBody)).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	settings, err := h.opts.Settings(ctx)
	if err != nil {
		rw.StoreError(err)
		return
	}
	if req.BusinessID != nil {
		settings.BusinessID = *req.BusinessID
	}
	if req.RowsPerPage != nil {
		settings.RowsPerPage = *req.RowsPerPage
	}
	if req.DefaultFields != nil {
		settings.DefaultFields = req.DefaultFields
	}
	if req.CacheTTLHours != nil {
		settings.CacheTTLHours = *req.CacheTTLHours
	}
	if err := h.opts.SaveSettings(ctx, settings); err != nil {
		rw.StoreError(err)
		return
	}

	if req.ClientID != nil || req.ClientSecret != nil {
		creds, err := h.opts.Credentials(ctx)
		if err != nil {
			rw.StoreError(err)
			return
		}
		if req.ClientID != nil {
			creds.ClientID = *req.ClientID
		}
		if req.ClientSecret != nil {
			creds.ClientSecret = *req.ClientSecret
		}
		if err := h.opts.SaveClient(ctx, creds.ClientID, creds.ClientSecret); err != nil {
			rw.StoreError(err)
			return
		}
	}

	logging.Ctx(ctx).Info().
		Str("business_id", settings.BusinessID).
		Int("rows_per_page", settings.RowsPerPage).
		Int("cache_ttl_hours", settings.CacheTTLHours).
		Msg("Settings updated")

	view, err := h.settingsView(r)
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.Success(view)
}

func (h *Handler) settingsView(r *http.Request) (SettingsView, error) {
	settings, err := h.opts.Settings(r.Context())
	if err != nil {
		return SettingsView{}, err
	}
	creds, err := h.opts.Credentials(r.Context())
	if err != nil {
		return SettingsView{}, err
	}
	return SettingsView{
		DisplaySettings: settings,
		ClientID:        creds.ClientID,
		HasClientSecret: creds.ClientSecret != "",
		TokenExpires:    syncpkg.FormatSyncTime(creds.Expiry, "Never"),
	}, nil
}
