/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package lineapi

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-linebot/internal/config"
	"github.com/acronis/go-linebot/internal/httpclient"
)

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfgData := bytes.NewBuffer([]byte(`
lineApi:
  channelAccessToken: test-token
`))
		cfg := NewDefaultConfig()
		err := config.NewDefaultLoader("").LoadFromReader(cfgData, config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, DefaultBaseURL, cfg.BaseURL)
		require.Equal(t, "test-token", cfg.ChannelAccessToken)
		require.Equal(t, DefaultTimeout, time.Duration(cfg.Timeout))
		require.Equal(t, DefaultRateLimit, cfg.RateLimit)
		require.Equal(t, DefaultMaxRetryAttempts, cfg.MaxRetryAttempts)
		require.Equal(t, httpclient.LoggingModeFailed, cfg.Logging.Mode)
	})

	t.Run("read values", func(t *testing.T) {
		cfgData := bytes.NewBuffer([]byte(`
lineApi:
  baseURL: https://line.example.com/v2/bot
  channelAccessToken: secret-token
  timeout: 30s
  rateLimit: 50
  maxRetryAttempts: 5
  logging:
    mode: all
    slowRequestThreshold: 2s
`))
		cfg := NewDefaultConfig()
		err := config.NewDefaultLoader("").LoadFromReader(cfgData, config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, "https://line.example.com/v2/bot", cfg.BaseURL)
		require.Equal(t, "secret-token", cfg.ChannelAccessToken)
		require.Equal(t, 30*time.Second, time.Duration(cfg.Timeout))
		require.Equal(t, 50, cfg.RateLimit)
		require.Equal(t, 5, cfg.MaxRetryAttempts)
		require.Equal(t, httpclient.LoggingModeAll, cfg.Logging.Mode)
		require.Equal(t, 2*time.Second, time.Duration(cfg.Logging.SlowRequestThreshold))
	})

	t.Run("channel access token is required", func(t *testing.T) {
		cfgData := bytes.NewBuffer([]byte(`
lineApi:
  baseURL: https://line.example.com/v2/bot
`))
		cfg := NewDefaultConfig()
		err := config.NewDefaultLoader("").LoadFromReader(cfgData, config.DataTypeYAML, cfg)
		require.EqualError(t, err, `lineApi.channelAccessToken: cannot be empty`)
	})

	t.Run("invalid logging mode", func(t *testing.T) {
		cfgData := bytes.NewBuffer([]byte(`
lineApi:
  channelAccessToken: test-token
  logging:
    mode: verbose
`))
		cfg := NewDefaultConfig()
		err := config.NewDefaultLoader("").LoadFromReader(cfgData, config.DataTypeYAML, cfg)
		require.EqualError(t, err, `lineApi.logging.mode: must be one of: [none, all, failed]`)
	})
}
