// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package oauth

import (
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

type kindError struct {
	msg   string
	label string
}

func (e *kindError) Error() string       { return e.msg }
func (e *kindError) MetricLabel() string { return e.label }

var (
	// ErrNotConfigured is returned before any network call when the client
	// id, client secret or refresh token is missing.
	ErrNotConfigured error = &kindError{"oauth: credentials not configured", "config"}

	// ErrAuthentication wraps an error payload returned by the token endpoint.
	ErrAuthentication error = &kindError{"authentication failed", "auth"}

	// ErrTransport wraps network failures talking to the token endpoint.
	ErrTransport error = &kindError{"oauth: transport error", "transport"}
)

// classify maps an x/oauth2 exchange error onto the package sentinels. The
// provider's error_description is preferred over its error code.
func classify(err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		msg := rerr.ErrorDescription
		if msg == "" {
			msg = rerr.ErrorCode
		}
		if msg == "" && rerr.Response != nil {
			msg = fmt.Sprintf("token endpoint returned HTTP %d", rerr.Response.StatusCode)
		}
		if msg == "" {
			msg = "token endpoint rejected the request"
		}
		return fmt.Errorf("%w: %s", ErrAuthentication, msg)
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}
