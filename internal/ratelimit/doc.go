/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package ratelimit provides a concurrent, keyed fixed-window rate limiter.
//
// The limiter counts requests per key within contiguous, non-overlapping time
// windows. The first request for a key opens a window; subsequent requests
// increment the counter until the configured cap is reached, after which
// requests are rejected until the window closes. A request arriving after the
// window has closed opens a fresh window with a count of one.
//
// The key space is sharded so that checks on unrelated keys proceed fully in
// parallel. Stale entries are removed by CleanupExpired, which is intended to
// be run periodically (see service.PeriodicWorker).
package ratelimit
