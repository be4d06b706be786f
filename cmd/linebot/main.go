/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Command linebot runs the LINE bot webhook service: it verifies webhook
// signatures, rate-limits callers, dispatches events and replies through
// the LINE Messaging API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/acronis/go-linebot/internal/config"
	"github.com/acronis/go-linebot/internal/httpclient"
	"github.com/acronis/go-linebot/internal/httpserver"
	"github.com/acronis/go-linebot/internal/httpserver/middleware"
	"github.com/acronis/go-linebot/internal/lineapi"
	"github.com/acronis/go-linebot/internal/log"
	"github.com/acronis/go-linebot/internal/ratelimit"
	"github.com/acronis/go-linebot/internal/restapi"
	"github.com/acronis/go-linebot/internal/service"
	"github.com/acronis/go-linebot/internal/webhook"
)

const (
	errorDomain      = "LineBot"
	metricsNamespace = "linebot"
	envVarsPrefix    = "LINEBOT"
	userAgent        = "linebot"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to the configuration file in YAML format")
	flag.Parse()
	if configPath == "" {
		configPath = os.Getenv(envVarsPrefix + "_CFG")
	}

	cfg := NewAppConfig()
	loader := config.NewDefaultLoader(envVarsPrefix)
	var err error
	if configPath != "" {
		err = loader.LoadFromFile(configPath, config.DataTypeYAML, cfg)
	} else {
		err = loader.LoadFromEnv(cfg)
	}
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, closeLogger := log.NewLogger(cfg.Log)
	defer closeLogger()

	restapi.MustInitAndRegisterMetrics(metricsNamespace)
	defer restapi.UnregisterMetrics()

	webhookMetrics := webhook.NewMetricsCollector(metricsNamespace)
	webhookMetrics.MustRegister()
	defer webhookMetrics.Unregister()

	lineAPIMetrics := lineapi.NewMetricsCollector(metricsNamespace)
	lineAPIMetrics.MustRegister()
	defer lineAPIMetrics.Unregister()

	lineTransport, err := httpclient.New(cfg.LineAPI.TransportConfig(), httpclient.Opts{
		UserAgent:         userAgent,
		AuthProvider:      httpclient.StaticTokenProvider(cfg.LineAPI.ChannelAccessToken),
		RequestIDProvider: middleware.GetRequestIDFromContext,
		LoggerProvider:    middleware.GetLoggerFromContext,
	})
	if err != nil {
		return fmt.Errorf("create LINE API HTTP client: %w", err)
	}
	lineClient := lineapi.NewClientWithOpts(lineTransport, cfg.LineAPI.BaseURL, lineapi.ClientOpts{
		MetricsCollector: lineAPIMetrics,
	})

	dispatcher := webhook.NewDispatcherWithOpts(lineClient, webhook.DispatcherOpts{
		MetricsCollector: webhookMetrics,
	})
	webhookHandler := webhook.NewHandlerWithOpts(dispatcher, errorDomain, webhook.HandlerOpts{
		LoggerProvider: func(r *http.Request) log.FieldLogger {
			return middleware.GetLoggerFromContext(r.Context())
		},
	})

	// A single limiter instance is shared by all requests of the process.
	limiter := ratelimit.NewFixedWindowLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.Window))

	router := httpserver.NewRouter(cfg.Server, logger, httpserver.Opts{
		ErrorDomain:    errorDomain,
		WebhookHandler: webhookHandler,
		ChannelSecret:  cfg.Webhook.ChannelSecret,
		RateLimiter:    limiter,
	})
	httpServer := httpserver.New(cfg.Server, logger, router)

	sweeperLogger := logger.With(log.String("worker", "rate_limit_sweeper"))
	sweeper := service.NewPeriodicWorker(service.WorkerFunc(func(ctx context.Context) error {
		if removed := limiter.CleanupExpired(); removed > 0 {
			sweeperLogger.Debug("expired rate limit entries removed", log.Int("removed_entries", removed))
		}
		return nil
	}), time.Duration(cfg.RateLimit.CleanupInterval), sweeperLogger)

	unit := service.NewCompositeUnit(httpServer, service.NewWorkerUnit(sweeper))
	return service.New(logger, unit).Start()
}
