/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package webhook

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-linebot/internal/config"
)

func TestConfig(t *testing.T) {
	t.Run("read values", func(t *testing.T) {
		cfgData := bytes.NewBuffer([]byte(`
webhook:
  channelSecret: test-secret
`))
		cfg := NewConfig()
		err := config.NewDefaultLoader("").LoadFromReader(cfgData, config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, "test-secret", cfg.ChannelSecret)
	})

	t.Run("channel secret is required", func(t *testing.T) {
		cfg := NewConfig()
		err := config.NewDefaultLoader("").LoadFromReader(bytes.NewBuffer(nil), config.DataTypeYAML, cfg)
		require.EqualError(t, err, `webhook.channelSecret: cannot be empty`)
	})
}
