// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package api

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reviewsync/internal/auth"
	"github.com/tomtom215/reviewsync/internal/models"
	"github.com/tomtom215/reviewsync/internal/store"
)

// ReviewSource reads and drops the cached review set.
type ReviewSource interface {
	Get(ctx context.Context) (reviews []models.Review, ok bool, err error)
	Clear(ctx context.Context) error
}

// SyncService runs manual syncs and reports scheduler state.
type SyncService interface {
	TriggerSync(ctx context.Context) (models.SyncResult, error)
	Status(ctx context.Context) (models.SyncStatus, error)
}

// TokenService manages the provider OAuth tokens.
type TokenService interface {
	Refresh(ctx context.Context) error
	AuthCodeURL(ctx context.Context, state string) (string, error)
	Exchange(ctx context.Context, code string) error
	Disconnect(ctx context.Context) error
}

// ProviderClient is the reviews provider as seen by the admin tools.
type ProviderClient interface {
	FetchPage(ctx context.Context, locationID, pageToken string) (*models.ReviewPage, error)
	ListAccounts(ctx context.Context) (json.RawMessage, error)
}

// Dependencies are the collaborators of a Handler. All are required.
type Dependencies struct {
	Options  *store.Options
	Reviews  ReviewSource
	Sync     SyncService
	Tokens   TokenService
	Provider ProviderClient
	State    *auth.StateSigner
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_public.go: JSON review endpoints for the site
//   - handlers_embed.go: HTML fragment endpoints
//   - handlers_admin.go: administrative operations
//   - handlers_oauth.go: provider consent flow
//   - handlers_health.go: probes
type Handler struct {
	opts     *store.Options
	reviews  ReviewSource
	sync     SyncService
	tokens   TokenService
	provider ProviderClient
	state    *auth.StateSigner

	startTime time.Time
	now       func() time.Time
}

func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		opts:      deps.Options,
		reviews:   deps.Reviews,
		sync:      deps.Sync,
		tokens:    deps.Tokens,
		provider:  deps.Provider,
		state:     deps.State,
		startTime: time.Now(),
		now:       time.Now,
	}
}

