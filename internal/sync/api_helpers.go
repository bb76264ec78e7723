// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package sync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reviewsync/internal/metrics"
)

// maxErrorBodySize bounds how much of a failed response is read.
const maxErrorBodySize = 64 * 1024

// apiErrorBody is the provider's error envelope.
type apiErrorBody struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (b *apiErrorBody) message() string {
	if b.Error != nil && b.Error.Message != "" {
		return b.Error.Message
	}
	return "API Error"
}

// readBodyForError reads at most maxErrorBodySize bytes of r.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}

// executeRequest performs an authenticated GET and decodes a 2xx body into
// dst. Network failures wrap ErrTransport; provider failures are *APIError.
func executeRequest(ctx context.Context, client *http.Client, operation, reqURL, accessToken string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		metrics.RecordProviderRequest(operation, "error", time.Since(start))
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	metrics.RecordProviderRequest(operation, fmt.Sprintf("%d", resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope apiErrorBody
		_ = json.Unmarshal(readBodyForError(resp.Body), &envelope)
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.message()}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	return decodeResponse(body, resp.StatusCode, dst)
}

// decodeResponse decodes body into dst after checking for an error payload
// delivered with a success status.
func decodeResponse(body []byte, status int, dst interface{}) error {
	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &APIError{StatusCode: status, Message: "invalid JSON response"}
	}
	if envelope.Error != nil {
		return &APIError{StatusCode: status, Message: envelope.message()}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &APIError{StatusCode: status, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return nil
}
