/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package webhook

import (
	"errors"

	"github.com/acronis/go-linebot/internal/config"
)

const cfgKeyChannelSecret = "webhook.channelSecret" //nolint:gosec // it's a configuration key, not a credential

// Config represents a set of configuration parameters for webhook callbacks handling.
type Config struct {
	// ChannelSecret is the shared secret incoming webhook signatures are verified with.
	ChannelSecret string `mapstructure:"channelSecret"`
}

var _ config.Config = (*Config)(nil)

// NewConfig creates a new instance of the Config.
func NewConfig() *Config {
	return &Config{}
}

// SetProviderDefaults sets default configuration values in config.DataProvider.
func (c *Config) SetProviderDefaults(_ config.DataProvider) {
}

// Set sets configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	var err error
	if c.ChannelSecret, err = dp.GetString(cfgKeyChannelSecret); err != nil {
		return err
	}
	if c.ChannelSecret == "" {
		return config.WrapKeyErr(cfgKeyChannelSecret, errors.New("cannot be empty"))
	}
	return nil
}
