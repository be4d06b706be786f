/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/acronis/go-linebot/internal/retry"
)

func TestRetryableRoundTripper(t *testing.T) {
	constantPolicy := retry.NewConstantBackoffPolicy(time.Millisecond, 0)

	t.Run("retries on 5xx and succeeds", func(t *testing.T) {
		var reqsCount atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if reqsCount.Inc() <= 2 {
				rw.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			rw.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		rt, err := NewRetryableRoundTripperWithOpts(http.DefaultTransport, RetryableRoundTripperOpts{
			MaxRetryAttempts: 5, BackoffPolicy: constantPolicy})
		require.NoError(t, err)
		client := &http.Client{Transport: rt}

		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, int32(3), reqsCount.Load())
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		var reqsCount atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			reqsCount.Inc()
			rw.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		rt, err := NewRetryableRoundTripperWithOpts(http.DefaultTransport, RetryableRoundTripperOpts{
			MaxRetryAttempts: 2, BackoffPolicy: constantPolicy})
		require.NoError(t, err)
		client := &http.Client{Transport: rt}

		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.Equal(t, int32(3), reqsCount.Load()) // first request + 2 retries
	})

	t.Run("no retry on 4xx", func(t *testing.T) {
		var reqsCount atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			reqsCount.Inc()
			rw.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		rt, err := NewRetryableRoundTripperWithOpts(http.DefaultTransport, RetryableRoundTripperOpts{
			MaxRetryAttempts: 5, BackoffPolicy: constantPolicy})
		require.NoError(t, err)
		client := &http.Client{Transport: rt}

		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, int32(1), reqsCount.Load())
	})

	t.Run("respects Retry-After header", func(t *testing.T) {
		var reqsCount atomic.Int32
		var firstRetryAt time.Time
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if reqsCount.Inc() == 1 {
				rw.Header().Set("Retry-After", "1")
				rw.WriteHeader(http.StatusTooManyRequests)
				return
			}
			firstRetryAt = time.Now()
			rw.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		rt, err := NewRetryableRoundTripperWithOpts(http.DefaultTransport, RetryableRoundTripperOpts{
			MaxRetryAttempts: 1, BackoffPolicy: constantPolicy})
		require.NoError(t, err)
		client := &http.Client{Transport: rt}

		start := time.Now()
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.GreaterOrEqual(t, firstRetryAt.Sub(start), time.Second)
	})

	t.Run("request body is resent on retries", func(t *testing.T) {
		var reqsCount atomic.Int32
		bodies := make(chan string, 3)
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			body := make([]byte, r.ContentLength)
			_, _ = r.Body.Read(body)
			bodies <- string(body)
			if reqsCount.Inc() == 1 {
				rw.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			rw.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		rt, err := NewRetryableRoundTripperWithOpts(http.DefaultTransport, RetryableRoundTripperOpts{
			MaxRetryAttempts: 2, BackoffPolicy: constantPolicy})
		require.NoError(t, err)
		client := &http.Client{Transport: rt}

		resp, err := client.Post(server.URL, "application/json", strings.NewReader(`{"messages":[]}`))
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, `{"messages":[]}`, <-bodies)
		require.Equal(t, `{"messages":[]}`, <-bodies)
	})
}
