// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package api

import (
	"net/http"

	"github.com/tomtom215/reviewsync/internal/logging"
	"github.com/tomtom215/reviewsync/internal/render"
)

// EmbedReviews renders the cached reviews as an HTML fragment. Unset
// rows_per_page and fields fall back to the stored display settings.
func (h *Handler) EmbedReviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rw := NewResponseWriter(w, r)

	settings, err := h.opts.Settings(ctx)
	if err != nil {
		rw.StoreError(err)
		return
	}

	q := r.URL.Query()
	req := EmbedReviewsRequest{
		Count:        getIntParam(r, "count", 5),
		ShowAll:      getBoolParam(r, "show_all"),
		RowsPerPage:  getIntParam(r, "rows_per_page", settings.RowsPerPage),
		Fields:       q.Get("fields"),
		RatingFilter: getIntParam(r, "rating_filter", 0),
		Order:        q.Get("order"),
		Class:        q.Get("class"),
	}
	if !validateRequest(w, r, &req) {
		return
	}

	reviews, _, err := h.reviews.Get(ctx)
	if err != nil {
		rw.StoreError(err)
		return
	}

	html, err := render.RenderReviews(reviews, render.ReviewsOptions{
		Count:        req.Count,
		ShowAll:      req.ShowAll,
		RowsPerPage:  req.RowsPerPage,
		Fields:       render.ParseFields(req.Fields, settings.DefaultFields),
		RatingFilter: req.RatingFilter,
		Order:        req.Order,
		Class:        req.Class,
	})
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to render reviews")
		rw.Error(http.StatusInternalServerError, ErrCodeInternalError, "Failed to render reviews")
		return
	}
	rw.HTML(string(html))
}

// EmbedFiveStarCount renders the persisted five-star count.
func (h *Handler) EmbedFiveStarCount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := EmbedCountRequest{
		Format: q.Get("format"),
		Prefix: q.Get("prefix"),
		Suffix: q.Get("suffix"),
		Class:  q.Get("class"),
	}
	if !validateRequest(w, r, &req) {
		return
	}

	rw := NewResponseWriter(w, r)
	stats, err := h.opts.Stats(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}

	html, err := render.RenderCount(stats.FiveStarCount, render.CountOptions{
		Format: req.Format,
		Prefix: req.Prefix,
		Suffix: req.Suffix,
		Class:  req.Class,
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to render five-star count")
		rw.Error(http.StatusInternalServerError, ErrCodeInternalError, "Failed to render count")
		return
	}
	rw.HTML(string(html))
}
