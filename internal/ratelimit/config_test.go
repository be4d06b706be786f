/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-linebot/internal/config"
)

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &Config{}
		err := config.NewDefaultLoader("").LoadFromReader(bytes.NewBuffer(nil), config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, NewDefaultConfig(), cfg)
	})

	t.Run("read values", func(t *testing.T) {
		cfgData := bytes.NewBufferString(`
rateLimit:
  maxRequests: 42
  window: 30s
  cleanupInterval: 2m
`)
		cfg := &Config{}
		err := config.NewDefaultLoader("").LoadFromReader(cfgData, config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, 42, cfg.MaxRequests)
		require.Equal(t, config.TimeDuration(30*time.Second), cfg.Window)
		require.Equal(t, config.TimeDuration(2*time.Minute), cfg.CleanupInterval)
	})

	t.Run("non-positive values are rejected", func(t *testing.T) {
		for _, yamlData := range []string{
			"rateLimit:\n  maxRequests: 0",
			"rateLimit:\n  maxRequests: -1",
			"rateLimit:\n  window: 0s",
			"rateLimit:\n  cleanupInterval: 0s",
		} {
			cfg := &Config{}
			err := config.NewDefaultLoader("").LoadFromReader(bytes.NewBufferString(yamlData), config.DataTypeYAML, cfg)
			require.Error(t, err, "config %q should be rejected", yamlData)
		}
	})
}
