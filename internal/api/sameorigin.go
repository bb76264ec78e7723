// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package api

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/tomtom215/reviewsync/internal/logging"
)

// SameOrigin rejects requests that do not come from the site at siteHost.
// The source is the Origin header, then the Referer, then the Host header.
// Ports are ignored. An empty siteHost rejects everything.
func SameOrigin(siteHost string) func(http.Handler) http.Handler {
	siteHost = strings.ToLower(siteHost)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if siteHost == "" || !strings.EqualFold(requestHost(r), siteHost) {
				logging.Ctx(r.Context()).Debug().
					Str("origin", r.Header.Get("Origin")).
					Str("referer", r.Header.Get("Referer")).
					Str("host", r.Host).
					Msg("Rejected cross-origin request")
				WriteError(w, r, http.StatusForbidden, ErrCodeForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestHost returns the host the request claims to come from, or "".
func requestHost(r *http.Request) string {
	for _, header := range []string{"Origin", "Referer"} {
		raw := r.Header.Get(header)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" {
			return ""
		}
		return u.Hostname()
	}

	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return host
}
