/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/acronis/go-linebot/internal/log"
)

// LoggingMode represents a mode of logging outgoing requests.
type LoggingMode string

// Logging modes.
const (
	LoggingModeNone   LoggingMode = "none"
	LoggingModeAll    LoggingMode = "all"
	LoggingModeFailed LoggingMode = "failed"
)

// IsValid checks if the logging mode is valid.
func (lm LoggingMode) IsValid() bool {
	switch lm {
	case LoggingModeNone, LoggingModeAll, LoggingModeFailed:
		return true
	}
	return false
}

// LoggingRoundTripperOpts represents an options for LoggingRoundTripper.
type LoggingRoundTripperOpts struct {
	// LoggerProvider is a function that provides a context-specific logger.
	LoggerProvider func(ctx context.Context) log.FieldLogger

	// Mode of logging: all, failed.
	Mode LoggingMode

	// SlowRequestThreshold is a minimal duration for a request to be logged regardless of mode.
	SlowRequestThreshold time.Duration
}

// LoggingRoundTripper implements http.RoundTripper for logging outgoing requests.
type LoggingRoundTripper struct {
	Delegate http.RoundTripper
	Opts     LoggingRoundTripperOpts
}

// NewLoggingRoundTripperWithOpts creates an HTTP transport that logs requests with options.
func NewLoggingRoundTripperWithOpts(delegate http.RoundTripper, opts LoggingRoundTripperOpts) http.RoundTripper {
	if opts.Mode == "" {
		opts.Mode = LoggingModeFailed
	}
	return &LoggingRoundTripper{Delegate: delegate, Opts: opts}
}

// RoundTrip executes a single HTTP transaction and logs it according to the configured mode.
func (rt *LoggingRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if rt.Opts.Mode == LoggingModeNone || rt.Opts.LoggerProvider == nil {
		return rt.Delegate.RoundTrip(r)
	}

	logger := rt.Opts.LoggerProvider(r.Context())
	if logger == nil {
		return rt.Delegate.RoundTrip(r)
	}

	start := time.Now()
	resp, err := rt.Delegate.RoundTrip(r)
	elapsed := time.Since(start)

	slow := rt.Opts.SlowRequestThreshold > 0 && elapsed >= rt.Opts.SlowRequestThreshold
	switch {
	case err != nil:
		logger.Error("outgoing http request failed",
			log.String("method", r.Method), log.String("url", r.URL.String()),
			log.Duration("elapsed", elapsed), log.Error(err))
	case rt.Opts.Mode == LoggingModeAll || resp.StatusCode >= http.StatusBadRequest || slow:
		logger.Info("outgoing http request",
			log.String("method", r.Method), log.String("url", r.URL.String()),
			log.Int("status_code", resp.StatusCode), log.Duration("elapsed", elapsed))
	}

	return resp, err
}
