/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpserver

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-linebot/internal/config"
)

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfgData := bytes.NewBuffer(nil)
		cfg := NewConfig()
		err := config.NewDefaultLoader("").LoadFromReader(cfgData, config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, NewDefaultConfig(), cfg)
	})

	t.Run("read values", func(t *testing.T) {
		cfgData := bytes.NewBuffer([]byte(`
server:
  address: ":8000"
  timeouts:
    write: 1m30s
    read: 30s
    readHeader: 5s
    idle: 2m
    shutdown: 15s
  limits:
    maxBodySize: 2M
  log:
    requestStart: true
    slowRequestThreshold: 3s
`))
		cfg := NewConfig()
		err := config.NewDefaultLoader("").LoadFromReader(cfgData, config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, ":8000", cfg.Address)
		require.Equal(t, 90*time.Second, time.Duration(cfg.Timeouts.Write))
		require.Equal(t, 30*time.Second, time.Duration(cfg.Timeouts.Read))
		require.Equal(t, 5*time.Second, time.Duration(cfg.Timeouts.ReadHeader))
		require.Equal(t, 2*time.Minute, time.Duration(cfg.Timeouts.Idle))
		require.Equal(t, 15*time.Second, time.Duration(cfg.Timeouts.Shutdown))
		require.Equal(t, config.ByteSize(2*1024*1024), cfg.Limits.MaxBodySizeBytes)
		require.True(t, cfg.Log.RequestStart)
		require.Equal(t, 3*time.Second, time.Duration(cfg.Log.SlowRequestThreshold))
	})

	t.Run("non-positive timeout is rejected", func(t *testing.T) {
		cfgData := bytes.NewBuffer([]byte(`
server:
  timeouts:
    read: -1s
`))
		cfg := NewConfig()
		err := config.NewDefaultLoader("").LoadFromReader(cfgData, config.DataTypeYAML, cfg)
		require.EqualError(t, err, `server.timeouts.read: must be positive`)
	})

	t.Run("empty address is rejected", func(t *testing.T) {
		cfgData := bytes.NewBuffer([]byte(`
server:
  address: ""
`))
		cfg := NewConfig()
		err := config.NewDefaultLoader("").LoadFromReader(cfgData, config.DataTypeYAML, cfg)
		require.EqualError(t, err, `server.address: cannot be empty`)
	})
}
