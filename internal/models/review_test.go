// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestStarRating_Stars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   StarRating
		want int
	}{
		{StarRatingOne, 1},
		{StarRatingThree, 3},
		{StarRatingFive, 5},
		{StarRatingUnspecified, 0},
		{"", 0},
		{"SIX", 0},
	}
	for _, tt := range tests {
		if got := tt.in.Stars(); got != tt.want {
			t.Errorf("%q.Stars() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestStarRatingFromInt(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 5; n++ {
		r, ok := StarRatingFromInt(n)
		if !ok || r.Stars() != n {
			t.Errorf("StarRatingFromInt(%d) = %q, %v", n, r, ok)
		}
	}
	for _, n := range []int{0, 6, -1} {
		if _, ok := StarRatingFromInt(n); ok {
			t.Errorf("StarRatingFromInt(%d) ok = true, want false", n)
		}
	}
}

func TestReview_DecodeProviderJSON(t *testing.T) {
	t.Parallel()

	body := `{"reviewId":"r1","reviewer":{"displayName":"Ada"},"starRating":"FOUR",
		"comment":"Great","createTime":"2024-03-01T10:00:00.123Z",
		"reviewReply":{"comment":"Thanks!","updateTime":"2024-03-02T09:00:00Z"}}`

	var r Review
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if r.Reviewer.DisplayName != "Ada" {
		t.Errorf("DisplayName = %q", r.Reviewer.DisplayName)
	}
	if r.StarRating.Stars() != 4 {
		t.Errorf("Stars() = %d, want 4", r.StarRating.Stars())
	}
	if want := time.Date(2024, 3, 1, 10, 0, 0, 123e6, time.UTC); !r.CreateTime.Equal(want) {
		t.Errorf("CreateTime = %v, want %v", r.CreateTime, want)
	}
	if !r.HasReply() {
		t.Error("HasReply() = false, want true")
	}
}

func TestCountFiveStar(t *testing.T) {
	t.Parallel()

	reviews := []Review{
		{StarRating: StarRatingFive},
		{StarRating: StarRatingFour},
		{StarRating: StarRatingFive},
		{StarRating: ""},
	}
	if got := CountFiveStar(reviews); got != 2 {
		t.Errorf("CountFiveStar() = %d, want 2", got)
	}
	if got := CountFiveStar(nil); got != 0 {
		t.Errorf("CountFiveStar(nil) = %d, want 0", got)
	}
}
