/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/acronis/go-linebot/internal/httpserver/middleware"
	"github.com/acronis/go-linebot/internal/log"
	"github.com/acronis/go-linebot/internal/ratelimit"
	"github.com/acronis/go-linebot/internal/restapi"
)

// Endpoints served by the router.
const (
	PathWebhook = "/webhook"
	PathHealth  = "/health"
	PathMetrics = "/metrics"
)

// Opts represents options for creating the server router.
type Opts struct {
	// ErrorDomain is used for error response formatting.
	ErrorDomain string

	// WebhookHandler handles POST /webhook after signature and rate limit checks.
	WebhookHandler http.Handler

	// ChannelSecret is the shared secret webhook signatures are verified with.
	ChannelSecret string

	// RateLimiter throttles webhook requests per client.
	// Rate limiting is disabled when it's nil.
	RateLimiter *ratelimit.FixedWindowLimiter

	// MetricsHandler is a handler for the /metrics endpoint.
	// Prometheus handler is used when it's not set.
	MetricsHandler http.Handler
}

// NewRouter creates a chi router with logging, request id generation, panic recovery
// and body size limiting applied to all routes. The webhook route additionally gets
// signature verification and per-client rate limiting. Health and metrics endpoints
// bypass both.
func NewRouter(cfg *Config, logger log.FieldLogger, opts Opts) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(middleware.LoggingWithOpts(logger, middleware.LoggingOpts{
		RequestStart:         cfg.Log.RequestStart,
		ExcludedEndpoints:    []string{PathHealth, PathMetrics},
		SlowRequestThreshold: time.Duration(cfg.Log.SlowRequestThreshold),
	}))
	router.Use(middleware.Recovery(opts.ErrorDomain))
	router.Use(middleware.RequestBodyLimit(uint64(cfg.Limits.MaxBodySizeBytes), opts.ErrorDomain))

	router.NotFound(func(rw http.ResponseWriter, r *http.Request) {
		restapi.RespondError(rw, http.StatusNotFound,
			restapi.NewError(opts.ErrorDomain, restapi.ErrCodeNotFound, restapi.ErrMessageNotFound),
			middleware.GetLoggerFromContext(r.Context()))
	})
	router.MethodNotAllowed(func(rw http.ResponseWriter, r *http.Request) {
		restapi.RespondError(rw, http.StatusMethodNotAllowed,
			restapi.NewError(opts.ErrorDomain, restapi.ErrCodeMethodNotAllowed, restapi.ErrMessageMethodNotAllowed),
			middleware.GetLoggerFromContext(r.Context()))
	})

	router.Get(PathHealth, HealthCheckHandler)

	metricsHandler := opts.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	router.Method(http.MethodGet, PathMetrics, metricsHandler)

	router.Group(func(r chi.Router) {
		r.Use(middleware.SignatureAuth(opts.ChannelSecret, opts.ErrorDomain))
		if opts.RateLimiter != nil {
			r.Use(middleware.RateLimit(opts.RateLimiter, opts.ErrorDomain))
		}
		r.Method(http.MethodPost, PathWebhook, opts.WebhookHandler)
	})

	return router
}
