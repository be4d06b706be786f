/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package httpclient provides a configurable outbound HTTP client assembled
// from composable round trippers: bearer auth, user agent, request id
// propagation, client-side rate limiting, retries and logging.
package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/acronis/go-linebot/internal/log"
)

// DefaultTimeout is a default timeout for the whole request, retries included.
const DefaultTimeout = 10 * time.Second

// Config represents settings of the assembled client.
// It is typically filled from the owning component's configuration section.
type Config struct {
	// Timeout bounds the total time of a single call including retries. Zero means DefaultTimeout.
	Timeout time.Duration

	// RateLimit is the maximum number of outgoing requests per second. Zero disables client-side limiting.
	RateLimit int

	// MaxRetryAttempts bounds retries of failed requests. Negative disables retries.
	MaxRetryAttempts int

	// LoggingMode determines which requests are logged. Empty means LoggingModeFailed.
	LoggingMode LoggingMode

	// SlowRequestThreshold is a minimal duration for a request to be logged as slow.
	SlowRequestThreshold time.Duration
}

// Opts provides non-configuration collaborators for New.
type Opts struct {
	// UserAgent is set on outgoing requests that carry no User-Agent of their own.
	UserAgent string

	// AuthProvider supplies the bearer token. If nil, no Authorization header is set.
	AuthProvider AuthProvider

	// RequestIDProvider extracts a request id from the context for outbound propagation.
	RequestIDProvider func(ctx context.Context) string

	// LoggerProvider is a function that provides a context-specific logger.
	LoggerProvider func(ctx context.Context) log.FieldLogger

	// Delegate is the innermost RoundTripper. http.DefaultTransport clone is used if nil.
	Delegate http.RoundTripper
}

// New assembles an *http.Client according to cfg and opts.
//
// The chain is built so that retries happen outermost (each attempt passes
// auth, rate limiting and logging again) while logging sits right above the
// network transport and observes every wire-level attempt.
func New(cfg *Config, opts Opts) (*http.Client, error) {
	delegate := opts.Delegate
	if delegate == nil {
		delegate = http.DefaultTransport.(*http.Transport).Clone()
	}

	if cfg.LoggingMode != LoggingModeNone {
		delegate = NewLoggingRoundTripperWithOpts(delegate, LoggingRoundTripperOpts{
			Mode:                 cfg.LoggingMode,
			SlowRequestThreshold: cfg.SlowRequestThreshold,
			LoggerProvider:       opts.LoggerProvider,
		})
	}

	if cfg.RateLimit > 0 {
		var err error
		delegate, err = NewRateLimitingRoundTripper(delegate, cfg.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("create rate limiting round tripper: %w", err)
		}
	}

	if opts.UserAgent != "" {
		delegate = NewUserAgentRoundTripper(delegate, opts.UserAgent)
	}

	if opts.RequestIDProvider != nil {
		delegate = NewRequestIDRoundTripper(delegate, opts.RequestIDProvider)
	}

	if opts.AuthProvider != nil {
		delegate = NewAuthBearerRoundTripper(delegate, opts.AuthProvider)
	}

	if cfg.MaxRetryAttempts >= 0 {
		var err error
		delegate, err = NewRetryableRoundTripperWithOpts(delegate, RetryableRoundTripperOpts{
			MaxRetryAttempts: cfg.MaxRetryAttempts,
			LoggerProvider:   opts.LoggerProvider,
		})
		if err != nil {
			return nil, fmt.Errorf("create retryable round tripper: %w", err)
		}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Transport: delegate, Timeout: timeout}, nil
}

// CloneHTTPRequest creates a shallow copy of the request along with a deep copy of the Headers.
func CloneHTTPRequest(req *http.Request) *http.Request {
	r := new(http.Request)
	*r = *req
	r.Header = CloneHTTPHeader(req.Header)
	return r
}

// CloneHTTPHeader creates a deep copy of an http.Header.
func CloneHTTPHeader(in http.Header) http.Header {
	out := make(http.Header, len(in))
	for key, values := range in {
		newValues := make([]string, len(values))
		copy(newValues, values)
		out[key] = newValues
	}
	return out
}
