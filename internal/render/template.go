// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

// DateFormat is the display format for review and reply dates.
const DateFormat = "January 2, 2006"

//go:embed templates/*.html.tmpl
var templateFS embed.FS

const (
	starIcon = `<svg width="16" height="16" viewBox="0 0 24 24" fill="currentColor"><path d="M12 2l3.09 6.26L22 9.27l-5 4.87 1.18 6.88L12 17.77l-6.18 3.25L7 14.14 2 9.27l6.91-1.01L12 2z"/></svg>`
	prevIcon = `<svg width="16" height="16" viewBox="0 0 24 24" fill="currentColor"><path d="M15.41 7.41L14 6l-6 6 6 6 1.41-1.41L10.83 12z"/></svg>`
	nextIcon = `<svg width="16" height="16" viewBox="0 0 24 24" fill="currentColor"><path d="M10 6L8.59 7.41 13.17 12l-4.58 4.59L10 18l6-6z"/></svg>`
)

type controlsData struct {
	TotalPages int
	Position   string
}

var templates = template.Must(template.New("render").Funcs(buildFuncMap()).ParseFS(templateFS, "templates/*.html.tmpl"))

func buildFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format(DateFormat)
		},
		"stars": func() []int {
			return []int{1, 2, 3, 4, 5}
		},
		"controls": func(totalPages int, position string) controlsData {
			return controlsData{TotalPages: totalPages, Position: position}
		},

		// Fixed markup only.
		"starIcon": func() template.HTML { return template.HTML(starIcon) }, //nolint:gosec // constant
		"prevIcon": func() template.HTML { return template.HTML(prevIcon) }, //nolint:gosec // constant
		"nextIcon": func() template.HTML { return template.HTML(nextIcon) }, //nolint:gosec // constant
	}
}

// execute runs the named template and returns the fragment.
func execute(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}
