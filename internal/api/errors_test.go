// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/reviewsync/internal/oauth"
	syncpkg "github.com/tomtom215/reviewsync/internal/sync"
)

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"in progress", syncpkg.ErrSyncInProgress, http.StatusConflict, ErrCodeConflict},
		{"sync not configured", syncpkg.ErrNotConfigured, http.StatusBadRequest, ErrCodeNotConfigured},
		{"oauth not configured", oauth.ErrNotConfigured, http.StatusBadRequest, ErrCodeNotConfigured},
		{"authentication wrapped", fmt.Errorf("refresh: %w", oauth.ErrAuthentication), http.StatusUnauthorized, ErrCodeUnauthorized},
		{"sync transport", fmt.Errorf("%w: connection reset", syncpkg.ErrTransport), http.StatusBadGateway, ErrCodeExternalServiceFail},
		{"oauth transport", oauth.ErrTransport, http.StatusBadGateway, ErrCodeExternalServiceFail},
		{"provider api", fmt.Errorf("fetch: %w", &syncpkg.APIError{StatusCode: 500, Message: "Internal"}), http.StatusBadGateway, ErrCodeExternalServiceFail},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, ErrCodeExternalServiceFail},
		{"other", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, code := errorStatus(tt.err)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Errorf("errorStatus() = %d %s, want %d %s", status, code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}
