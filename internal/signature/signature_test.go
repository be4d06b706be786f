/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	secret := []byte("test-channel-secret")
	body := []byte(`{"destination":"U123","events":[]}`)

	got := Sign(secret, body)
	require.True(t, strings.HasPrefix(got, Prefix))

	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	require.Equal(t, Prefix+base64.StdEncoding.EncodeToString(mac.Sum(nil)), got)
}

func TestVerify(t *testing.T) {
	secret := []byte("test-channel-secret")
	body := []byte(`{"destination":"U123","events":[]}`)

	t.Run("valid signature", func(t *testing.T) {
		require.True(t, Verify(secret, body, Sign(secret, body)))
	})

	t.Run("empty body", func(t *testing.T) {
		require.True(t, Verify(secret, nil, Sign(secret, nil)))
	})

	t.Run("wrong secret", func(t *testing.T) {
		require.False(t, Verify(secret, body, Sign([]byte("other-secret"), body)))
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := Sign(secret, body)
		tampered := []byte(`{"destination":"U666","events":[]}`)
		require.False(t, Verify(secret, tampered, sig))
	})

	t.Run("missing prefix", func(t *testing.T) {
		sig := strings.TrimPrefix(Sign(secret, body), Prefix)
		require.False(t, Verify(secret, body, sig))
	})

	t.Run("wrong prefix", func(t *testing.T) {
		sig := "sha512=" + strings.TrimPrefix(Sign(secret, body), Prefix)
		require.False(t, Verify(secret, body, sig))
	})

	t.Run("invalid base64", func(t *testing.T) {
		require.False(t, Verify(secret, body, Prefix+"!!!not-base64!!!"))
	})

	t.Run("empty value", func(t *testing.T) {
		require.False(t, Verify(secret, body, ""))
	})

	t.Run("truncated digest", func(t *testing.T) {
		sig := Sign(secret, body)
		require.False(t, Verify(secret, body, sig[:len(sig)-8]))
	})
}
