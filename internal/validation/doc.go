// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

/*
Package validation provides struct validation using go-playground/validator v10.

A single validator instance is shared by every handler. It reports field
names from json or query struct tags, so messages read "row_count must be at
most 100" rather than using Go field names.

The custom review_field tag accepts only selectable review fields
(author_name, text, rating, time, reply).

Example:

	type ReviewsQuery struct {
	    PageNumber int `query:"page_number" validate:"min=1"`
	    RowCount   int `query:"row_count" validate:"min=1,max=100"`
	}

	if verr := validation.ValidateStruct(&q); verr != nil {
	    apiErr := verr.ToAPIError()
	    // respond 400 with apiErr.Code (VALIDATION_ERROR)
	}
*/
package validation
