// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package render

import (
	"fmt"
	"html/template"
	"math/rand/v2"

	"github.com/tomtom215/reviewsync/internal/models"
)

// NoReviewsHTML is rendered when the cache holds no reviews.
const NoReviewsHTML template.HTML = `<div class="egr__no-reviews">No reviews found.</div>`

// ReviewsOptions controls RenderReviews.
type ReviewsOptions struct {
	// Count limits the output unless ShowAll is set. Zero means no limit.
	Count   int
	ShowAll bool

	// RowsPerPage switches ShowAll output to the paginated container when
	// more reviews than this remain.
	RowsPerPage int

	// Fields selects the parts of each review to render. See ParseFields.
	Fields []string

	// RatingFilter keeps only reviews with this many stars when 1-5.
	RatingFilter int
	Order        string
	Class        string

	// InstanceID is the container id. Empty generates egr-reviews-NNNN.
	InstanceID string
}

type fieldSet struct {
	AuthorName bool
	Text       bool
	Rating     bool
	Time       bool
	Reply      bool
}

func newFieldSet(fields []string) fieldSet {
	var fs fieldSet
	for _, f := range fields {
		switch f {
		case "author_name":
			fs.AuthorName = true
		case "text":
			fs.Text = true
		case "rating":
			fs.Rating = true
		case "time":
			fs.Time = true
		case "reply":
			fs.Reply = true
		}
	}
	return fs
}

type reviewData struct {
	Review *models.Review
	Show   fieldSet
}

type pageData struct {
	Number  int
	Reviews []reviewData
}

type listData struct {
	InstanceID  string
	CSSClass    string
	RowsPerPage int
	TotalPages  int
	Reviews     []reviewData
	Pages       []pageData
}

// RenderReviews renders the review set as an HTML fragment. The set is
// filtered by rating, sorted, then cut to opts.Count unless opts.ShowAll.
func RenderReviews(reviews []models.Review, opts ReviewsOptions) (template.HTML, error) {
	if len(reviews) == 0 {
		return NoReviewsHTML, nil
	}

	list := SortByCreateTime(FilterByRating(reviews, opts.RatingFilter), opts.Order)
	if !opts.ShowAll && opts.Count > 0 && len(list) > opts.Count {
		list = list[:opts.Count]
	}

	show := newFieldSet(opts.Fields)
	items := make([]reviewData, len(list))
	for i := range list {
		items[i] = reviewData{Review: &list[i], Show: show}
	}

	id := opts.InstanceID
	if id == "" {
		id = fmt.Sprintf("egr-reviews-%d", 1000+rand.IntN(9000)) //nolint:gosec // element id only
	}
	class := SanitizeClass(opts.Class)

	if opts.ShowAll && opts.RowsPerPage > 0 && len(items) > opts.RowsPerPage {
		data := listData{
			InstanceID:  id,
			CSSClass:    withClass("egr__reviews-container egr__reviews-paginated", class),
			RowsPerPage: opts.RowsPerPage,
		}
		for start := 0; start < len(items); start += opts.RowsPerPage {
			end := min(start+opts.RowsPerPage, len(items))
			data.Pages = append(data.Pages, pageData{Number: len(data.Pages) + 1, Reviews: items[start:end]})
		}
		data.TotalPages = len(data.Pages)
		return execute("paginated", data)
	}

	return execute("grid", listData{
		InstanceID: id,
		CSSClass:   withClass("egr__reviews-grid", class),
		Reviews:    items,
	})
}

func withClass(base, extra string) string {
	if extra == "" {
		return base
	}
	return base + " " + extra
}
