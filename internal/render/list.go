// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package render

import (
	"slices"
	"strings"

	"github.com/tomtom215/reviewsync/internal/config"
	"github.com/tomtom215/reviewsync/internal/models"
)

// Sort orders accepted by SortByCreateTime.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// FilterByRating keeps reviews rated exactly rating stars. A rating outside
// 1-5 returns reviews unchanged.
func FilterByRating(reviews []models.Review, rating int) []models.Review {
	target, ok := models.StarRatingFromInt(rating)
	if !ok {
		return reviews
	}
	out := make([]models.Review, 0, len(reviews))
	for i := range reviews {
		if reviews[i].StarRating == target {
			out = append(out, reviews[i])
		}
	}
	return out
}

// SortByCreateTime returns a stably sorted copy ordered by creation time.
// Any order other than OrderAsc sorts newest first.
func SortByCreateTime(reviews []models.Review, order string) []models.Review {
	out := slices.Clone(reviews)
	slices.SortStableFunc(out, func(a, b models.Review) int {
		if order == OrderAsc {
			return a.CreateTime.Compare(b.CreateTime)
		}
		return b.CreateTime.Compare(a.CreateTime)
	})
	return out
}

// Pagination describes one page of a larger list.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	TotalItems  int  `json:"total_items"`
	TotalPages  int  `json:"total_pages"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

// PageView is one page of reviews plus its pagination metadata.
type PageView struct {
	Reviews    []models.Review
	Pagination Pagination
}

// Paginate returns page (1-based) of reviews with perPage items per page.
// A page past the end yields an empty slice with the totals still filled in.
func Paginate(reviews []models.Review, page, perPage int) PageView {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	total := len(reviews)
	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}

	view := PageView{
		Reviews: []models.Review{},
		Pagination: Pagination{
			CurrentPage: page,
			PerPage:     perPage,
			TotalItems:  total,
			TotalPages:  totalPages,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
	}

	if page > totalPages {
		return view
	}
	start := (page - 1) * perPage
	end := min(start+perPage, total)
	view.Reviews = reviews[start:end]
	return view
}

// ParseFields splits a comma separated field list and keeps the names in
// config.AllowedFields, in the order given. An empty list returns defaults.
func ParseFields(list string, defaults []string) []string {
	if strings.TrimSpace(list) == "" {
		return defaults
	}
	var fields []string
	for _, f := range strings.Split(list, ",") {
		f = strings.TrimSpace(f)
		if slices.Contains(config.AllowedFields, f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// SanitizeClass strips every character outside [A-Za-z0-9_-].
func SanitizeClass(class string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return -1
	}, class)
}
