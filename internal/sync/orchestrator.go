// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/reviewsync/internal/config"
	"github.com/tomtom215/reviewsync/internal/logging"
	"github.com/tomtom215/reviewsync/internal/metrics"
	"github.com/tomtom215/reviewsync/internal/models"
	"github.com/tomtom215/reviewsync/internal/store"
)

// PageFetcher fetches one page of reviews.
type PageFetcher interface {
	FetchPage(ctx context.Context, locationID, pageToken string) (*models.ReviewPage, error)
}

// TokenValidator makes sure a usable access token is stored.
type TokenValidator interface {
	EnsureValid(ctx context.Context) error
}

// ReviewCache receives the committed review set.
type ReviewCache interface {
	Put(ctx context.Context, reviews []models.Review, ttl time.Duration) error
}

// Orchestrator runs one sync: fetch every page, then commit the set and its
// statistics, or commit nothing.
type Orchestrator struct {
	fetcher PageFetcher
	tokens  TokenValidator
	opts    *store.Options
	cache   ReviewCache

	maxPages  int
	pageDelay time.Duration
	lockTTL   time.Duration
	errorTTL  time.Duration

	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
	onComplete func(result models.SyncResult, err error)
}

// NewOrchestrator wires the run dependencies using cfg.Sync limits.
func NewOrchestrator(cfg *config.SyncConfig, fetcher PageFetcher, tokens TokenValidator, opts *store.Options, cache ReviewCache) *Orchestrator {
	o := &Orchestrator{
		fetcher:   fetcher,
		tokens:    tokens,
		opts:      opts,
		cache:     cache,
		maxPages:  cfg.MaxPages,
		pageDelay: cfg.PageDelay,
		lockTTL:   cfg.LockTTL,
		errorTTL:  cfg.ErrorTTL,
		now:       time.Now,
		sleep:     sleepContext,
	}
	if o.maxPages <= 0 {
		o.maxPages = 50
	}
	if o.lockTTL <= 0 {
		o.lockTTL = 5 * time.Minute
	}
	if o.errorTTL <= 0 {
		o.errorTTL = 24 * time.Hour
	}
	return o
}

// SetOnComplete registers a callback invoked after every run, successful or not.
func (o *Orchestrator) SetOnComplete(fn func(result models.SyncResult, err error)) {
	o.onComplete = fn
}

// InProgress reports whether a run currently holds the in-progress flag.
func (o *Orchestrator) InProgress(ctx context.Context) (bool, error) {
	_, err := o.opts.Store().Get(ctx, store.KeySyncInProgress)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RunSync fetches every review for locationID and replaces the cached set.
//
// The in-progress flag is checked and then set as two separate store calls,
// so two runs starting at the same instant can both proceed. Statistics
// returned are those persisted after the run; they are unchanged when the
// provider returned no reviews.
func (o *Orchestrator) RunSync(ctx context.Context, locationID string) (models.SyncResult, error) {
	start := o.now()
	log := logging.Ctx(ctx).With().Str("location", locationID).Logger()

	running, err := o.InProgress(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("store: read sync flag: %w", err)
	}
	if running {
		return models.SyncResult{}, ErrSyncInProgress
	}
	if err := store.SetString(ctx, o.opts.Store(), store.KeySyncInProgress, "1", o.lockTTL); err != nil {
		return models.SyncResult{}, fmt.Errorf("store: set sync flag: %w", err)
	}
	defer func() {
		// The run's own context may already be canceled.
		if err := o.opts.Store().Delete(context.WithoutCancel(ctx), store.KeySyncInProgress); err != nil {
			log.Error().Err(err).Msg("Failed to clear sync flag")
		}
	}()

	result, err := o.run(ctx, locationID)
	metrics.RecordSyncOperation(o.now().Sub(start), result.Pages, result.Total, result.FiveStarCount, err)

	if err != nil {
		log.Error().Err(err).Int("pages", result.Pages).Msg("Review sync failed")
	} else {
		if cerr := o.opts.Store().Delete(ctx, store.KeyLastSyncError); cerr != nil {
			log.Warn().Err(cerr).Msg("Failed to clear last sync error")
		}
		log.Info().
			Int("total", result.Total).
			Int("five_star", result.FiveStarCount).
			Int("pages", result.Pages).
			Dur("duration", o.now().Sub(start)).
			Msg("Review sync completed")
	}

	if o.onComplete != nil {
		o.onComplete(result, err)
	}
	return result, err
}

func (o *Orchestrator) run(ctx context.Context, locationID string) (models.SyncResult, error) {
	var result models.SyncResult

	if locationID == "" {
		return result, ErrNotConfigured
	}
	if err := o.tokens.EnsureValid(ctx); err != nil {
		return result, err
	}

	var all []models.Review
	pageToken := ""
	for {
		if result.Pages >= o.maxPages {
			result.Truncated = true
			logging.Ctx(ctx).Warn().Int("max_pages", o.maxPages).Msg("Reached maximum page limit during sync")
			break
		}

		page, err := o.fetcher.FetchPage(ctx, locationID, pageToken)
		if err != nil {
			return result, err
		}
		result.Pages++
		all = append(all, page.Reviews...)

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
		if err := o.sleep(ctx, o.pageDelay); err != nil {
			return result, err
		}
	}

	if len(all) == 0 {
		logging.Ctx(ctx).Info().Msg("No reviews found during sync")
	} else if err := o.commit(ctx, all); err != nil {
		return result, err
	}

	stats, err := o.opts.Stats(ctx)
	if err != nil {
		return result, fmt.Errorf("store: read stats: %w", err)
	}
	result.Total = stats.TotalReviews
	result.FiveStarCount = stats.FiveStarCount
	result.LastSync = stats.LastSync
	return result, nil
}

func (o *Orchestrator) commit(ctx context.Context, reviews []models.Review) error {
	ttl, err := o.opts.CacheTTL(ctx)
	if err != nil {
		return fmt.Errorf("store: read cache ttl: %w", err)
	}
	if err := o.cache.Put(ctx, reviews, ttl); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	stats := models.SyncStats{
		TotalReviews:  len(reviews),
		FiveStarCount: models.CountFiveStar(reviews),
		LastSync:      o.now(),
	}
	if err := o.opts.SaveStats(ctx, stats); err != nil {
		return fmt.Errorf("store: save stats: %w", err)
	}
	return nil
}

// RecordFailure stores err as the last sync error for the status endpoint.
func (o *Orchestrator) RecordFailure(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if serr := store.SetString(ctx, o.opts.Store(), store.KeyLastSyncError, err.Error(), o.errorTTL); serr != nil {
		logging.Ctx(ctx).Warn().Err(serr).Msg("Failed to record last sync error")
	}
}

// LastError returns the recorded failure message, or "".
func (o *Orchestrator) LastError(ctx context.Context) (string, error) {
	return store.GetString(ctx, o.opts.Store(), store.KeyLastSyncError)
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
