// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package render

import (
	"html/template"
	"strconv"

	"github.com/dustin/go-humanize"
)

// Count formats accepted by RenderCount.
const (
	FormatNumber    = "number"
	FormatFormatted = "formatted"
	FormatText      = "text"
)

// CountOptions controls RenderCount.
type CountOptions struct {
	// Format is number, formatted or text. Anything else renders as number.
	Format string
	Prefix string
	Suffix string
	Class  string
}

// FormatCount renders count in the given format without markup.
func FormatCount(count int, format string) string {
	switch format {
	case FormatFormatted:
		return humanize.Comma(int64(count))
	case FormatText:
		switch count {
		case 0:
			return "No five-star reviews"
		case 1:
			return "1 five-star review"
		default:
			return humanize.Comma(int64(count)) + " five-star reviews"
		}
	default:
		return strconv.Itoa(count)
	}
}

// RenderCount wraps the formatted five-star count, with prefix and suffix,
// in a span. All text is escaped.
func RenderCount(count int, opts CountOptions) (template.HTML, error) {
	return execute("count", struct {
		CSSClass string
		Text     string
	}{
		CSSClass: withClass("egr__five-star-count", SanitizeClass(opts.Class)),
		Text:     opts.Prefix + FormatCount(count, opts.Format) + opts.Suffix,
	})
}
