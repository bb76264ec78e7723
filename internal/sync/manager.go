// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/reviewsync/internal/config"
	"github.com/tomtom215/reviewsync/internal/logging"
	"github.com/tomtom215/reviewsync/internal/models"
	"github.com/tomtom215/reviewsync/internal/store"
)

// TimeFormat is used for last and next sync times in admin responses.
const TimeFormat = "2006-01-02 15:04:05"

// Runner executes a single sync.
type Runner interface {
	RunSync(ctx context.Context, locationID string) (models.SyncResult, error)
	InProgress(ctx context.Context) (bool, error)
	RecordFailure(ctx context.Context, err error)
}

// TokenRefresher is the hourly token maintenance job.
type TokenRefresher interface {
	RefreshIfExpiringWithin(ctx context.Context, d time.Duration) (bool, error)
}

// Manager schedules sync runs and token refreshes and serves manual triggers.
type Manager struct {
	runner    Runner
	refresher TokenRefresher
	opts      *store.Options
	cfg       config.SyncConfig

	mu       sync.RWMutex
	running  bool
	nextSync time.Time
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewManager(cfg *config.SyncConfig, runner Runner, refresher TokenRefresher, opts *store.Options) *Manager {
	return &Manager{
		runner:    runner,
		refresher: refresher,
		opts:      opts,
		cfg:       *cfg,
	}
}

// Start launches the background loops. With scheduling disabled only the
// token refresh loop runs.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("sync manager is already running")
	}
	m.running = true
	m.stopChan = make(chan struct{})
	m.mu.Unlock()

	logging.Info().
		Bool("enabled", m.cfg.Enabled).
		Dur("interval", m.cfg.Interval).
		Dur("token_refresh_interval", m.cfg.TokenRefreshInterval).
		Msg("Starting sync manager...")

	// Add before starting so Stop never waits on a partial count.
	m.wg.Add(1)
	go m.tokenLoop(ctx)

	if m.cfg.Enabled && m.cfg.Interval > 0 {
		m.wg.Add(1)
		go m.syncLoop(ctx)
	}
	return nil
}

// Stop ends the loops and waits for an in-flight run to return.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return fmt.Errorf("sync manager is not running")
	}
	m.running = false
	m.nextSync = time.Time{}
	close(m.stopChan)
	m.mu.Unlock()

	logging.Info().Msg("Stopping sync manager...")
	m.wg.Wait()
	logging.Info().Msg("Sync manager stopped")
	return nil
}

func (m *Manager) syncLoop(ctx context.Context) {
	defer m.wg.Done()

	if m.cfg.RunOnStartup {
		m.scheduledSync(ctx)
	}

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()
	m.setNextSync(time.Now().Add(m.cfg.Interval))

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.scheduledSync(ctx)
			m.setNextSync(time.Now().Add(m.cfg.Interval))
		}
	}
}

func (m *Manager) tokenLoop(ctx context.Context) {
	defer m.wg.Done()

	interval := m.cfg.TokenRefreshInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.refreshToken(ctx)
		}
	}
}

// scheduledSync runs one scheduled sync and records its failure.
func (m *Manager) scheduledSync(ctx context.Context) {
	ctx = logging.ContextWithCorrelationID(ctx, logging.NewCorrelationID())

	_, err := m.TriggerSync(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrSyncInProgress):
		logging.Ctx(ctx).Info().Msg("Scheduled sync skipped: sync already in progress")
	case errors.Is(err, context.Canceled):
	default:
		m.runner.RecordFailure(ctx, err)
	}
}

func (m *Manager) refreshToken(ctx context.Context) {
	window := m.cfg.TokenRefreshWindow
	if window <= 0 {
		window = time.Hour
	}
	refreshed, err := m.refresher.RefreshIfExpiringWithin(ctx, window)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to refresh token")
		return
	}
	if refreshed {
		logging.Ctx(ctx).Info().Msg("Token refreshed successfully")
	}
}

// TriggerSync runs a sync for the stored business location now.
func (m *Manager) TriggerSync(ctx context.Context) (models.SyncResult, error) {
	locationID, err := m.opts.BusinessID(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("store: read business id: %w", err)
	}
	return m.runner.RunSync(ctx, locationID)
}

// NextSync returns the next scheduled run, or the zero time when none is scheduled.
func (m *Manager) NextSync() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nextSync
}

func (m *Manager) setNextSync(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.nextSync = t
	}
}

// Status reports the persisted statistics and scheduler state.
func (m *Manager) Status(ctx context.Context) (models.SyncStatus, error) {
	stats, err := m.opts.Stats(ctx)
	if err != nil {
		return models.SyncStatus{}, err
	}
	inProgress, err := m.runner.InProgress(ctx)
	if err != nil {
		return models.SyncStatus{}, err
	}

	status := models.SyncStatus{
		LastSync:      FormatSyncTime(stats.LastSync, "Never"),
		TotalReviews:  stats.TotalReviews,
		FiveStarCount: stats.FiveStarCount,
		NextSync:      FormatSyncTime(m.NextSync(), "Not scheduled"),
		InProgress:    inProgress,
	}
	return status, nil
}

// FormatSyncTime formats t in local time, or returns zero for the zero time.
func FormatSyncTime(t time.Time, zero string) string {
	if t.IsZero() {
		return zero
	}
	return t.Local().Format(TimeFormat)
}
