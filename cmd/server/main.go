// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/reviewsync/internal/api"
	"github.com/tomtom215/reviewsync/internal/auth"
	"github.com/tomtom215/reviewsync/internal/cache"
	"github.com/tomtom215/reviewsync/internal/config"
	"github.com/tomtom215/reviewsync/internal/logging"
	"github.com/tomtom215/reviewsync/internal/oauth"
	"github.com/tomtom215/reviewsync/internal/store"
	"github.com/tomtom215/reviewsync/internal/supervisor"
	"github.com/tomtom215/reviewsync/internal/supervisor/services"
	"github.com/tomtom215/reviewsync/internal/sync"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Reviewsync exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // Sequential setup steps
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("store", cfg.Store.Type).
		Str("site_host", cfg.SiteHost()).
		Bool("sync_enabled", cfg.Sync.Enabled).
		Dur("sync_interval", cfg.Sync.Interval).
		Msg("Starting Reviewsync with supervisor tree")

	// Store
	backend, err := store.Open(&cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	var enc *store.Encryptor
	if cfg.Store.EncryptionKey != "" {
		if enc, err = store.NewEncryptor(cfg.Store.EncryptionKey); err != nil {
			return fmt.Errorf("store encryption: %w", err)
		}
	} else {
		logging.Warn().Msg("STORE_ENCRYPTION_KEY not set; OAuth secrets are stored in plaintext")
	}

	opts := store.NewOptions(backend, enc)
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	err = opts.Seed(seedCtx, cfg)
	cancelSeed()
	if err != nil {
		return fmt.Errorf("seed options: %w", err)
	}

	// Reviews, tokens, provider
	reviewCache := cache.New(backend)
	tokens := oauth.NewManager(cfg, opts, reviewCache)
	provider := sync.NewCircuitBreakerClient(sync.NewClient(&cfg.Google, tokens))

	orchestrator := sync.NewOrchestrator(&cfg.Sync, provider, tokens, opts, reviewCache)
	syncManager := sync.NewManager(&cfg.Sync, orchestrator, tokens, opts)

	// Admin authentication
	basicAuth, err := auth.NewBasicAuthManager(cfg.Security.AdminUsername, cfg.Security.AdminPassword)
	if err != nil {
		return fmt.Errorf("basic auth: %w", err)
	}
	stateSigner, err := auth.NewStateSigner(cfg.Security.StateSecret)
	if err != nil {
		return fmt.Errorf("oauth state signer: %w", err)
	}
	csrf := auth.NewCSRFMiddleware(&auth.CSRFConfig{
		CookieSecure: cfg.Security.CSRFSecureCookie,
		ErrorHandler: api.CSRFErrorHandler,
	}, backend)

	// HTTP
	handler := api.NewHandler(api.Dependencies{
		Options:  opts,
		Reviews:  reviewCache,
		Sync:     syncManager,
		Tokens:   tokens,
		Provider: provider,
		State:    stateSigner,
	})
	chiMW := api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security))
	router := api.NewRouter(handler, chiMW, basicAuth, csrf, cfg.SiteHost())

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// A manual sync walks every provider page before responding.
		WriteTimeout: cfg.Server.Timeout + cfg.Google.RequestTimeout*time.Duration(cfg.Sync.MaxPages),
		IdleTimeout:  60 * time.Second,
	}

	// Supervisor tree
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if gc, ok := backend.(services.GarbageCollector); ok {
		tree.AddDataService(services.NewStoreGCService(gc, 10*time.Minute))
		logging.Info().Msg("Store GC added to supervisor tree")
	}
	tree.AddSchedulerService(services.NewSyncService(syncManager))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			serveErr = fmt.Errorf("supervisor tree: %w", err)
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return serveErr
}
