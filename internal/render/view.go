// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package render

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tomtom215/reviewsync/internal/models"
)

// DateTimeFormat is used for the last sync time on the stats endpoint.
const DateTimeFormat = "January 2, 2006 3:04 pm"

// DateView is a timestamp in the three forms the frontend script uses.
type DateView struct {
	Timestamp int64  `json:"timestamp"`
	Formatted string `json:"formatted"`
	Relative  string `json:"relative"`
}

// ReplyView is the business reply of a ReviewView.
type ReplyView struct {
	Text string   `json:"text"`
	Date DateView `json:"date"`
}

// ReviewView is the public JSON form of a review.
type ReviewView struct {
	Name   string     `json:"name"`
	Rating int        `json:"rating"`
	Text   string     `json:"text"`
	Date   DateView   `json:"date"`
	Reply  *ReplyView `json:"reply"`
}

// LastSyncView is the last sync time on the stats endpoint. Formatted and
// Relative are nil before the first sync.
type LastSyncView struct {
	Timestamp int64   `json:"timestamp"`
	Formatted *string `json:"formatted"`
	Relative  *string `json:"relative"`
}

// newDateView leaves every form empty for the zero time.
func newDateView(t, now time.Time) DateView {
	if t.IsZero() {
		return DateView{}
	}
	return DateView{
		Timestamp: t.Unix(),
		Formatted: t.Format(DateFormat),
		Relative:  humanize.RelTime(t, now, "ago", "from now"),
	}
}

// NewReviewView converts r. Relative dates are computed against now.
func NewReviewView(r *models.Review, now time.Time) ReviewView {
	v := ReviewView{
		Name:   r.Reviewer.DisplayName,
		Rating: r.StarRating.Stars(),
		Text:   r.Comment,
		Date:   newDateView(r.CreateTime, now),
	}
	if r.ReviewReply != nil {
		v.Reply = &ReplyView{
			Text: r.ReviewReply.Comment,
			Date: newDateView(r.ReviewReply.UpdateTime, now),
		}
	}
	return v
}

// NewReviewViews converts every review in order.
func NewReviewViews(reviews []models.Review, now time.Time) []ReviewView {
	views := make([]ReviewView, len(reviews))
	for i := range reviews {
		views[i] = NewReviewView(&reviews[i], now)
	}
	return views
}

// NewLastSyncView converts the last sync time. The zero time means never.
func NewLastSyncView(t, now time.Time) LastSyncView {
	if t.IsZero() {
		return LastSyncView{}
	}
	formatted := t.Local().Format(DateTimeFormat)
	relative := humanize.RelTime(t, now, "ago", "from now")
	return LastSyncView{Timestamp: t.Unix(), Formatted: &formatted, Relative: &relative}
}
