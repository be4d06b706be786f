/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthBearerRoundTripper(t *testing.T) {
	t.Run("sets authorization header", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
		}))
		defer server.Close()

		client := &http.Client{Transport: NewAuthBearerRoundTripper(http.DefaultTransport, StaticTokenProvider("channel-token"))}
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, "Bearer channel-token", gotAuth)
	})

	t.Run("keeps already set authorization header", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
		}))
		defer server.Close()

		client := &http.Client{Transport: NewAuthBearerRoundTripper(http.DefaultTransport, StaticTokenProvider("channel-token"))}
		req, err := http.NewRequest(http.MethodGet, server.URL, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer other")
		resp, err := client.Do(req)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, "Bearer other", gotAuth)
	})

	t.Run("token provider error", func(t *testing.T) {
		failingProvider := authProviderFunc(func(ctx context.Context) (string, error) {
			return "", errors.New("token source unavailable")
		})
		client := &http.Client{Transport: NewAuthBearerRoundTripper(http.DefaultTransport, failingProvider)}
		_, err := client.Get("http://127.0.0.1:0")
		var authErr *AuthBearerRoundTripperError
		require.ErrorAs(t, err, &authErr)
	})
}

type authProviderFunc func(ctx context.Context) (string, error)

func (f authProviderFunc) GetToken(ctx context.Context) (string, error) { return f(ctx) }

func TestUserAgentRoundTripper(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := &http.Client{Transport: NewUserAgentRoundTripper(http.DefaultTransport, "linebot/1.0")}
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, "linebot/1.0", gotUserAgent)
}

func TestRequestIDRoundTripper(t *testing.T) {
	type ctxKey string
	const requestIDKey ctxKey = "request_id"

	provider := func(ctx context.Context) string {
		id, _ := ctx.Value(requestIDKey).(string)
		return id
	}

	t.Run("propagates request id from context", func(t *testing.T) {
		var gotRequestID string
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			gotRequestID = r.Header.Get("X-Request-ID")
		}))
		defer server.Close()

		client := &http.Client{Transport: NewRequestIDRoundTripper(http.DefaultTransport, provider)}
		req, err := http.NewRequestWithContext(
			context.WithValue(context.Background(), requestIDKey, "req-42"), http.MethodGet, server.URL, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, "req-42", gotRequestID)
	})

	t.Run("no request id in context", func(t *testing.T) {
		var gotRequestID string
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			gotRequestID = r.Header.Get("X-Request-ID")
		}))
		defer server.Close()

		client := &http.Client{Transport: NewRequestIDRoundTripper(http.DefaultTransport, provider)}
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Empty(t, gotRequestID)
	})
}

func TestNew(t *testing.T) {
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
	}))
	defer server.Close()

	client, err := New(&Config{RateLimit: 100}, Opts{
		UserAgent:         "linebot/1.0",
		AuthProvider:      StaticTokenProvider("channel-token"),
		RequestIDProvider: func(ctx context.Context) string { return "" },
	})
	require.NoError(t, err)

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, "Bearer channel-token", gotHeaders.Get("Authorization"))
	require.Equal(t, "linebot/1.0", gotHeaders.Get("User-Agent"))
}
