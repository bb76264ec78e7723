// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

/*
Package main is the entry point for the Reviewsync server.

Reviewsync pulls a business's reviews from the Google Business Profile API,
caches them, and serves them to a website as JSON and as embeddable HTML
fragments. An admin API handles the OAuth consent flow, settings, manual
syncs and cache control.

# Application Architecture

	RootSupervisor ("reviewsync")
	├── DataSupervisor ("data-layer")
	│   └── Store GC (badger and memory backends)
	├── SchedulerSupervisor ("scheduler-layer")
	│   └── Sync Manager (daily sync + hourly token refresh)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Initialization order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog
 3. Store: badger, redis or memory, with optional at-rest encryption
 4. Options: first-start seed from configuration
 5. OAuth manager and provider client (circuit breaker + rate limiter)
 6. Sync orchestrator and manager
 7. Admin auth: basic auth, CSRF, signed OAuth state
 8. HTTP router and supervisor tree

# Configuration

Required:
  - ADMIN_USERNAME, ADMIN_PASSWORD: admin API credentials
  - OAUTH_STATE_SECRET: 32+ characters, signs the consent state
  - SITE_URL: public URL of the site embedding the reviews

Provider:
  - GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET (may also be set via the admin API)
  - GOOGLE_BUSINESS_ID: location id, seeded on first start

Store:
  - STORE_TYPE: badger (default), redis or memory
  - STORE_PATH: badger directory (default /data/reviewsync)
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB
  - STORE_ENCRYPTION_KEY: base64 key for secrets at rest

Scheduling:
  - SYNC_ENABLED (default true), SYNC_INTERVAL (default 24h)
  - SYNC_ON_STARTUP: run one sync as soon as the scheduler starts

# Signal Handling

SIGINT and SIGTERM cancel the supervisor context. The HTTP server drains
for up to 10s, the sync manager waits for an in-flight run, and the store
is closed last.

# Example Usage

	export ADMIN_USERNAME=admin
	export ADMIN_PASSWORD=$(openssl rand -base64 24)
	export OAUTH_STATE_SECRET=$(openssl rand -base64 32)
	export SITE_URL=https://www.example.com
	export STORE_PATH=./data
	./reviewsync
*/
package main
