/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package middleware

import (
	"net"
	"net/http"
	"strconv"

	"github.com/acronis/go-linebot/internal/log"
	"github.com/acronis/go-linebot/internal/ratelimit"
	"github.com/acronis/go-linebot/internal/restapi"
)

// Rate limiting response headers.
const (
	HeaderRetryAfter         = "Retry-After"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// ClientKeyProvider extracts the key a request is rate-limited by.
type ClientKeyProvider func(r *http.Request) string

// RateLimitOpts represents an options for RateLimit middleware.
type RateLimitOpts struct {
	// GetClientKey overrides how requests are attributed to clients.
	// ClientIPKey is used when not set.
	GetClientKey ClientKeyProvider
}

type rateLimitHandler struct {
	next        http.Handler
	limiter     *ratelimit.FixedWindowLimiter
	errorDomain string
	opts        RateLimitOpts
}

// RateLimit is a middleware that throttles requests per client key using the passed limiter.
// Throttled requests get 429 with the Retry-After header; admitted requests get the current
// quota state in X-RateLimit-* headers.
func RateLimit(limiter *ratelimit.FixedWindowLimiter, errDomain string) func(next http.Handler) http.Handler {
	return RateLimitWithOpts(limiter, errDomain, RateLimitOpts{})
}

// RateLimitWithOpts is a more configurable version of RateLimit middleware.
func RateLimitWithOpts(
	limiter *ratelimit.FixedWindowLimiter, errDomain string, opts RateLimitOpts,
) func(next http.Handler) http.Handler {
	if opts.GetClientKey == nil {
		opts.GetClientKey = ClientIPKey
	}
	return func(next http.Handler) http.Handler {
		return &rateLimitHandler{next: next, limiter: limiter, errorDomain: errDomain, opts: opts}
	}
}

func (h *rateLimitHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	key := h.opts.GetClientKey(r)
	result := h.limiter.Check(key)

	if !result.Allowed {
		retryAfterSecs := int64(result.RetryAfter.Seconds())
		if logger := GetLoggerFromContext(r.Context()); logger != nil {
			logger.Warn("rate limit exceeded",
				log.String("client_key", key),
				log.Int64("retry_after_secs", retryAfterSecs))
		}
		rw.Header().Set(HeaderRetryAfter, strconv.FormatInt(retryAfterSecs, 10))
		rw.Header().Set(HeaderRateLimitRemaining, "0")
		restapi.RespondError(rw, http.StatusTooManyRequests,
			restapi.NewError(h.errorDomain, restapi.ErrCodeTooManyRequests, restapi.ErrMessageTooManyRequests),
			GetLoggerFromContext(r.Context()))
		return
	}

	rw.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(result.Remaining))
	rw.Header().Set(HeaderRateLimitReset, strconv.FormatInt(int64(result.ResetAfter.Seconds()), 10))

	h.next.ServeHTTP(rw, r)
}

// ClientIPKey attributes a request to the client IP address: the first entry
// of X-Forwarded-For, then X-Real-IP, then the connection remote address.
func ClientIPKey(r *http.Request) string {
	if originAddr := getOriginAddr(r); originAddr != "" {
		return originAddr
	}
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && ip != "" {
		return ip
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
