// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

// Package models holds the data types shared across Reviewsync packages.
package models

import "time"

// StarRating is the provider's named rating value.
type StarRating string

const (
	StarRatingUnspecified StarRating = "STAR_RATING_UNSPECIFIED"
	StarRatingOne         StarRating = "ONE"
	StarRatingTwo         StarRating = "TWO"
	StarRatingThree       StarRating = "THREE"
	StarRatingFour        StarRating = "FOUR"
	StarRatingFive        StarRating = "FIVE"
)

var starRatingValues = map[StarRating]int{
	StarRatingOne:   1,
	StarRatingTwo:   2,
	StarRatingThree: 3,
	StarRatingFour:  4,
	StarRatingFive:  5,
}

// Stars returns 1-5, or 0 for an unknown or unspecified rating.
func (r StarRating) Stars() int {
	return starRatingValues[r]
}

// StarRatingFromInt maps 1-5 to the named rating. ok is false for any other value.
func StarRatingFromInt(n int) (rating StarRating, ok bool) {
	for k, v := range starRatingValues {
		if v == n {
			return k, true
		}
	}
	return "", false
}

// Reviewer identifies the author of a review.
type Reviewer struct {
	DisplayName     string `json:"displayName"`
	ProfilePhotoURL string `json:"profilePhotoUrl,omitempty"`
	IsAnonymous     bool   `json:"isAnonymous,omitempty"`
}

// ReviewReply is the business owner's response to a review.
type ReviewReply struct {
	Comment    string    `json:"comment"`
	UpdateTime time.Time `json:"updateTime"`
}

// Review is one review as returned by the provider and as stored in the cache.
// Reviews have no identity of their own here: every sync replaces the whole set.
type Review struct {
	ReviewID    string       `json:"reviewId,omitempty"`
	Reviewer    Reviewer     `json:"reviewer"`
	StarRating  StarRating   `json:"starRating"`
	Comment     string       `json:"comment,omitempty"`
	CreateTime  time.Time    `json:"createTime"`
	UpdateTime  time.Time    `json:"updateTime"`
	ReviewReply *ReviewReply `json:"reviewReply,omitempty"`
}

// HasReply reports whether the business replied with non-empty text.
func (r *Review) HasReply() bool {
	return r.ReviewReply != nil && r.ReviewReply.Comment != ""
}

// ReviewPage is one page of the provider's list-reviews response.
type ReviewPage struct {
	Reviews          []Review `json:"reviews"`
	AverageRating    float64  `json:"averageRating,omitempty"`
	TotalReviewCount int      `json:"totalReviewCount,omitempty"`
	NextPageToken    string   `json:"nextPageToken,omitempty"`
}

// CountFiveStar returns the number of reviews rated FIVE.
func CountFiveStar(reviews []Review) int {
	n := 0
	for i := range reviews {
		if reviews[i].StarRating == StarRatingFive {
			n++
		}
	}
	return n
}
