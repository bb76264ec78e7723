// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package sync

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reviewsync/internal/config"
	"github.com/tomtom215/reviewsync/internal/models"
)

// TokenSource supplies a valid bearer token for each request.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// ReviewFetcher is implemented by Client and CircuitBreakerClient.
type ReviewFetcher interface {
	FetchPage(ctx context.Context, locationID, pageToken string) (*models.ReviewPage, error)
	ListAccounts(ctx context.Context) (json.RawMessage, error)
}

// Client talks to the Business Profile reviews API. Requests are paced by a
// token bucket shared by every caller of the client.
type Client struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
}

// NewClient builds a client for cfg.APIBaseURL.
func NewClient(cfg *config.GoogleConfig, tokens TokenSource) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.APIBaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// LocationPath returns the resource path for locationID. IDs that already
// contain a slash are taken as a full path.
func LocationPath(locationID string) string {
	id := strings.Trim(locationID, "/")
	if strings.Contains(id, "/") {
		return id
	}
	return fmt.Sprintf("accounts/%s/locations/%s", id, id)
}

// FetchPage fetches one page of reviews. An empty pageToken requests the first page.
func (c *Client) FetchPage(ctx context.Context, locationID, pageToken string) (*models.ReviewPage, error) {
	reqURL := c.baseURL + "/" + LocationPath(locationID) + "/reviews"
	if pageToken != "" {
		reqURL += "?" + url.Values{"pageToken": {pageToken}}.Encode()
	}

	var page models.ReviewPage
	if err := c.get(ctx, "list_reviews", reqURL, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListAccounts returns the raw accounts listing used by the connection test.
func (c *Client) ListAccounts(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "list_accounts", c.baseURL+"/accounts", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) get(ctx context.Context, operation, reqURL string, dst interface{}) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", ErrTransport, err)
	}
	return executeRequest(ctx, c.client, operation, reqURL, token, dst)
}
