// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package api

import (
	"net/http"

	"github.com/tomtom215/reviewsync/internal/oauth"
	"github.com/tomtom215/reviewsync/internal/render"
	"github.com/tomtom215/reviewsync/internal/store"
)

// ReviewsPayload is the data of /api/v1/reviews.
type ReviewsPayload struct {
	Reviews    []render.ReviewView `json:"reviews"`
	Pagination render.Pagination   `json:"pagination"`
}

// StatsPayload is the data of /api/v1/reviews/stats.
type StatsPayload struct {
	ConnectionStatus string              `json:"connection_status"`
	LastSync         render.LastSyncView `json:"last_sync"`
	Totals           StatsTotals         `json:"totals"`
	HasError         bool                `json:"has_error"`
	ErrorMessage     *string             `json:"error_message"`
}

// StatsTotals counts the reviews saved by the last successful sync.
type StatsTotals struct {
	TotalReviews  int `json:"total_reviews"`
	FiveStarCount int `json:"five_star_count"`
}

// FiveStarCount returns the persisted five-star count.
func (h *Handler) FiveStarCount(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	stats, err := h.opts.Stats(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.Public(PublicResponse{
		Success: true,
		Data:    map[string]int{"five_star_count": stats.FiveStarCount},
	})
}

// Reviews returns one page of the cached reviews in cache order.
func (h *Handler) Reviews(w http.ResponseWriter, r *http.Request) {
	req := ReviewsRequest{
		PageNumber: getIntParam(r, "page_number", 1),
		RowCount:   getIntParam(r, "row_count", 10),
	}
	if !validateRequest(w, r, &req) {
		return
	}

	rw := NewResponseWriter(w, r)
	reviews, ok, err := h.reviews.Get(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}
	if !ok {
		rw.Public(PublicResponse{
			Success: false,
			Message: "No reviews data available",
			Data: ReviewsPayload{
				Reviews: []render.ReviewView{},
				Pagination: render.Pagination{
					CurrentPage: req.PageNumber,
					PerPage:     req.RowCount,
				},
			},
		})
		return
	}

	page := render.Paginate(reviews, req.PageNumber, req.RowCount)
	rw.Public(PublicResponse{
		Success: true,
		Data: ReviewsPayload{
			Reviews:    render.NewReviewViews(page.Reviews, h.now()),
			Pagination: page.Pagination,
		},
	})
}

// Stats reports connection state, the last sync and the last scheduled failure.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rw := NewResponseWriter(w, r)

	stats, err := h.opts.Stats(ctx)
	if err != nil {
		rw.StoreError(err)
		return
	}
	creds, err := h.opts.Credentials(ctx)
	if err != nil {
		rw.StoreError(err)
		return
	}
	businessID, err := h.opts.BusinessID(ctx)
	if err != nil {
		rw.StoreError(err)
		return
	}
	lastErr, err := store.GetString(ctx, h.opts.Store(), store.KeyLastSyncError)
	if err != nil {
		rw.StoreError(err)
		return
	}

	now := h.now()
	status := "not_connected"
	if creds.AccessToken != "" && businessID != "" && oauth.TokenValid(creds, now) {
		status = "connected"
	}

	payload := StatsPayload{
		ConnectionStatus: status,
		LastSync:         render.NewLastSyncView(stats.LastSync, now),
		Totals: StatsTotals{
			TotalReviews:  stats.TotalReviews,
			FiveStarCount: stats.FiveStarCount,
		},
		HasError: lastErr != "",
	}
	if lastErr != "" {
		payload.ErrorMessage = &lastErr
	}
	rw.Public(PublicResponse{Success: true, Data: payload})
}
