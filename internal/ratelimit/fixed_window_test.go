/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

// testClock is a manually advanced clock for deterministic limiter tests.
type testClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newTestClock() *testClock {
	return &testClock{cur: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.cur = c.cur.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(maxRequests int, window time.Duration) (*FixedWindowLimiter, *testClock) {
	clock := newTestClock()
	limiter := NewFixedWindowLimiter(maxRequests, window)
	limiter.now = clock.Now
	return limiter, clock
}

func TestFixedWindowLimiterCheck(t *testing.T) {
	const maxRequests = 3
	const window = time.Minute

	t.Run("first request opens window", func(t *testing.T) {
		limiter, _ := newTestLimiter(maxRequests, window)
		res := limiter.Check("user-1")
		require.True(t, res.Allowed)
		require.Equal(t, maxRequests-1, res.Remaining)
		require.Equal(t, window, res.ResetAfter)
	})

	t.Run("quota is exhausted within one window", func(t *testing.T) {
		limiter, clock := newTestLimiter(maxRequests, window)
		for i := 0; i < maxRequests; i++ {
			res := limiter.Check("user-1")
			require.True(t, res.Allowed, "request #%d should be admitted", i+1)
			require.Equal(t, maxRequests-1-i, res.Remaining)
			clock.Advance(time.Second)
		}

		res := limiter.Check("user-1")
		require.False(t, res.Allowed)
		require.Equal(t, window-time.Duration(maxRequests)*time.Second, res.RetryAfter)

		// Rejected requests must not consume quota or extend the window.
		clock.Advance(time.Second)
		res = limiter.Check("user-1")
		require.False(t, res.Allowed)
		require.Equal(t, window-time.Duration(maxRequests+1)*time.Second, res.RetryAfter)
	})

	t.Run("window expiry resets the count", func(t *testing.T) {
		limiter, clock := newTestLimiter(maxRequests, window)
		for i := 0; i < maxRequests; i++ {
			require.True(t, limiter.Check("user-1").Allowed)
		}
		require.False(t, limiter.Check("user-1").Allowed)

		clock.Advance(window)
		res := limiter.Check("user-1")
		require.True(t, res.Allowed)
		require.Equal(t, maxRequests-1, res.Remaining)
		require.Equal(t, window, res.ResetAfter)
	})

	t.Run("keys are limited independently", func(t *testing.T) {
		limiter, _ := newTestLimiter(1, window)
		require.True(t, limiter.Check("user-1").Allowed)
		require.False(t, limiter.Check("user-1").Allowed)
		require.True(t, limiter.Check("user-2").Allowed)
	})

	t.Run("reset after reflects elapsed time", func(t *testing.T) {
		limiter, clock := newTestLimiter(maxRequests, window)
		require.Equal(t, window, limiter.Check("user-1").ResetAfter)
		clock.Advance(10 * time.Second)
		require.Equal(t, window-10*time.Second, limiter.Check("user-1").ResetAfter)
	})
}

func TestFixedWindowLimiterCleanupExpired(t *testing.T) {
	const window = time.Minute

	t.Run("removes only stale entries", func(t *testing.T) {
		limiter, clock := newTestLimiter(3, window)
		limiter.Check("stale")
		clock.Advance(window + time.Second)
		limiter.Check("fresh")

		require.Equal(t, 1, limiter.CleanupExpired())
		require.Equal(t, 1, limiter.EntriesCount())
		require.Equal(t, 0, limiter.CleanupExpired())
	})

	t.Run("keeps recently seen entries with closed windows", func(t *testing.T) {
		limiter, clock := newTestLimiter(3, window)
		limiter.Check("user-1")
		clock.Advance(window - time.Second)
		limiter.Check("user-1") // lastSeen is refreshed, window still open
		clock.Advance(2 * time.Second)

		// Window has closed but the key was seen within the last window.
		require.Equal(t, 0, limiter.CleanupExpired())
		require.Equal(t, 1, limiter.EntriesCount())
	})

	t.Run("idempotent with no new traffic", func(t *testing.T) {
		limiter, clock := newTestLimiter(3, window)
		for i := 0; i < 10; i++ {
			limiter.Check(fmt.Sprintf("user-%d", i))
		}
		clock.Advance(2 * window)

		require.Equal(t, 10, limiter.CleanupExpired())
		for i := 0; i < 3; i++ {
			require.Equal(t, 0, limiter.CleanupExpired())
		}
		require.Equal(t, 0, limiter.EntriesCount())
	})

	t.Run("never removes entries seen within the window", func(t *testing.T) {
		limiter, clock := newTestLimiter(100, window)
		limiter.Check("user-1")
		clock.Advance(window / 2)
		limiter.Check("user-1")
		clock.Advance(window/2 + time.Second)

		// windowStart is older than the window, but lastSeen is not.
		require.Equal(t, 0, limiter.CleanupExpired())
	})
}

func TestFixedWindowLimiterConcurrency(t *testing.T) {
	const maxRequests = 100
	const goroutines = 10
	const checksPerGoroutine = 20

	limiter := NewFixedWindowLimiter(maxRequests, time.Minute)

	var allowedCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < checksPerGoroutine; j++ {
				if limiter.Check("shared-key").Allowed {
					allowedCount.Inc()
				}
			}
		}()
	}
	wg.Wait()

	// 200 concurrent checks against a cap of 100: exactly 100 must be admitted.
	require.Equal(t, int32(maxRequests), allowedCount.Load())
	require.Equal(t, 1, limiter.EntriesCount())
}

func TestFixedWindowLimiterConcurrentCleanup(t *testing.T) {
	limiter := NewFixedWindowLimiter(5, time.Millisecond)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				limiter.CleanupExpired()
			}
		}
	}()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				limiter.Check(fmt.Sprintf("user-%d-%d", i, j%10))
			}
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(stop)
	wg.Wait()
}
