/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"hash/fnv"
	"sync"
	"time"
)

const shardsCount = 16

// Result is the outcome of a single admission check.
type Result struct {
	// Allowed tells whether the request was admitted.
	Allowed bool

	// Remaining is the number of requests that may still be admitted in the current window.
	// Meaningful only when Allowed is true.
	Remaining int

	// ResetAfter is the time until the current window closes.
	// Meaningful only when Allowed is true.
	ResetAfter time.Duration

	// RetryAfter is the time after which a rejected caller may retry.
	// Meaningful only when Allowed is false.
	RetryAfter time.Duration
}

type entry struct {
	count       int
	windowStart time.Time
	lastSeen    time.Time
}

type shard struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// FixedWindowLimiter is a concurrent, keyed fixed-window rate limiter.
//
// A single limiter instance must be shared by all request handlers;
// constructing one per request defeats the limiting entirely.
// The zero value is not usable, use NewFixedWindowLimiter.
type FixedWindowLimiter struct {
	maxRequests int
	window      time.Duration
	shards      [shardsCount]*shard

	// now is replaceable in tests.
	now func() time.Time
}

// NewFixedWindowLimiter creates a new FixedWindowLimiter
// admitting at most maxRequests per key within each window.
func NewFixedWindowLimiter(maxRequests int, window time.Duration) *FixedWindowLimiter {
	l := &FixedWindowLimiter{maxRequests: maxRequests, window: window, now: time.Now}
	for i := range l.shards {
		l.shards[i] = &shard{entries: make(map[string]*entry)}
	}
	return l
}

func (l *FixedWindowLimiter) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return l.shards[h.Sum32()%shardsCount]
}

// Check performs an admission check for the given key.
//
// The first request for a key (or the first after its window closed) opens a
// fresh window with a count of one. While the window is open, requests are
// admitted until the cap is reached; once the count hits the cap, further
// requests within the same window are rejected without incrementing it.
// The check never fails; it only reports Allowed or not.
func (l *FixedWindowLimiter) Check(key string) Result {
	now := l.now()
	sh := l.shardFor(key)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.entries[key]
	if !ok {
		sh.entries[key] = &entry{count: 1, windowStart: now, lastSeen: now}
		return Result{Allowed: true, Remaining: l.maxRequests - 1, ResetAfter: l.window}
	}

	elapsed := now.Sub(e.windowStart)
	if elapsed >= l.window {
		e.count = 1
		e.windowStart = now
		e.lastSeen = now
		return Result{Allowed: true, Remaining: l.maxRequests - 1, ResetAfter: l.window}
	}

	if e.count >= l.maxRequests {
		return Result{Allowed: false, RetryAfter: l.window - elapsed}
	}

	e.count++
	e.lastSeen = now
	return Result{Allowed: true, Remaining: l.maxRequests - e.count, ResetAfter: l.window - elapsed}
}

// CleanupExpired removes entries whose window has closed and that have not been
// touched for at least a full window. It returns the number of removed entries.
//
// Shards are locked one at a time, so a running sweep never stalls checks on
// keys living in other shards.
func (l *FixedWindowLimiter) CleanupExpired() int {
	now := l.now()
	removed := 0
	for _, sh := range l.shards {
		sh.mu.Lock()
		for key, e := range sh.entries {
			if now.Sub(e.windowStart) > l.window && now.Sub(e.lastSeen) > l.window {
				delete(sh.entries, key)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// EntriesCount returns the current number of tracked keys.
func (l *FixedWindowLimiter) EntriesCount() int {
	total := 0
	for _, sh := range l.shards {
		sh.mu.Lock()
		total += len(sh.entries)
		sh.mu.Unlock()
	}
	return total
}
