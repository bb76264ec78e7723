// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/reviewsync/internal/auth"
	"github.com/tomtom215/reviewsync/internal/logging"
	"github.com/tomtom215/reviewsync/internal/middleware"
)

// Router wires handlers and middleware into a chi tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	basicAuth     *auth.BasicAuthManager
	csrf          *auth.CSRFMiddleware
	siteHost      string
}

// NewRouter creates a router. siteHost is the host public and embed
// requests must come from.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, basicAuth *auth.BasicAuthManager, csrf *auth.CSRFMiddleware, siteHost string) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		basicAuth:     basicAuth,
		csrf:          csrf,
		siteHost:      siteHost,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not found")
	})

	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		// Public read-only API used by the site's frontend script.
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(SameOrigin(router.siteHost))
			r.Use(chimiddleware.Compress(5))

			r.Get("/reviews", h.Reviews)
			r.Get("/reviews/5star-count", h.FiveStarCount)
			r.Get("/reviews/stats", h.Stats)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(noStore)
			r.Use(router.chiMiddleware.RateLimit())

			// The provider redirects the browser here; the signed state
			// replaces basic auth.
			r.Get("/oauth/callback", h.OAuthCallback)

			r.Group(func(r chi.Router) {
				r.Use(router.basicAuth.Require(basicAuthFailed))
				r.Use(router.csrf.Protect)

				r.Get("/csrf-token", h.CSRFToken)
				r.Get("/oauth/connect", h.OAuthConnect)

				r.Get("/settings", h.GetSettings)
				r.Put("/settings", h.UpdateSettings)

				r.Post("/cache/clear", h.ClearCache)
				r.Post("/connection/test", h.TestConnection)
				r.Post("/disconnect", h.Disconnect)
				r.Post("/token/refresh", h.RefreshToken)

				r.With(router.chiMiddleware.RateLimitCustom(RateLimitSync)).Post("/sync", h.TriggerSync)
				r.Get("/sync/status", h.SyncStatus)
				r.Get("/reviews/page", h.PagePreview)
			})
		})
	})

	r.Route("/embed", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(SameOrigin(router.siteHost))
		r.Use(chimiddleware.Compress(5))

		r.Get("/reviews", h.EmbedReviews)
		r.Get("/five-star-count", h.EmbedFiveStarCount)
	})

	return r
}

func basicAuthFailed(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Debug().Err(err).Msg("Admin authentication failed")
	WriteError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required")
}

// CSRFErrorHandler writes CSRF failures in the API error envelope.
func CSRFErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	WriteError(w, r, http.StatusForbidden, ErrCodeForbidden, err.Error())
}
