/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package lineapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/acronis/go-linebot/internal/config"
	"github.com/acronis/go-linebot/internal/httpclient"
)

const (
	cfgKeyBaseURL                     = "lineApi.baseURL"
	cfgKeyChannelAccessToken          = "lineApi.channelAccessToken" //nolint:gosec // configuration key, not a credential
	cfgKeyTimeout                     = "lineApi.timeout"
	cfgKeyRateLimit                   = "lineApi.rateLimit"
	cfgKeyMaxRetryAttempts            = "lineApi.maxRetryAttempts"
	cfgKeyLoggingMode                 = "lineApi.logging.mode"
	cfgKeyLoggingSlowRequestThreshold = "lineApi.logging.slowRequestThreshold"
)

// Default values of configuration parameters.
const (
	DefaultTimeout              = 10 * time.Second
	DefaultRateLimit            = 100
	DefaultMaxRetryAttempts     = 3
	DefaultSlowRequestThreshold = time.Second
)

// Config represents a set of configuration parameters for the LINE Messaging API client.
type Config struct {
	BaseURL            string              `mapstructure:"baseURL" yaml:"baseURL" json:"baseURL"`
	ChannelAccessToken string              `mapstructure:"channelAccessToken" yaml:"channelAccessToken" json:"channelAccessToken"`
	Timeout            config.TimeDuration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	RateLimit          int                 `mapstructure:"rateLimit" yaml:"rateLimit" json:"rateLimit"`
	MaxRetryAttempts   int                 `mapstructure:"maxRetryAttempts" yaml:"maxRetryAttempts" json:"maxRetryAttempts"`
	Logging            ClientLoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// ClientLoggingConfig represents logging parameters for outgoing LINE API requests.
type ClientLoggingConfig struct {
	Mode                 httpclient.LoggingMode `mapstructure:"mode" yaml:"mode" json:"mode"`
	SlowRequestThreshold config.TimeDuration    `mapstructure:"slowRequestThreshold" yaml:"slowRequestThreshold" json:"slowRequestThreshold"`
}

var _ config.Config = (*Config)(nil)

// NewDefaultConfig creates a new instance of the Config with default values.
// ChannelAccessToken has no default and must always be provided.
func NewDefaultConfig() *Config {
	return &Config{
		BaseURL:          DefaultBaseURL,
		Timeout:          config.TimeDuration(DefaultTimeout),
		RateLimit:        DefaultRateLimit,
		MaxRetryAttempts: DefaultMaxRetryAttempts,
		Logging: ClientLoggingConfig{
			Mode:                 httpclient.LoggingModeFailed,
			SlowRequestThreshold: config.TimeDuration(DefaultSlowRequestThreshold),
		},
	}
}

// SetProviderDefaults sets default configuration values for the LINE API client in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyBaseURL, DefaultBaseURL)
	dp.SetDefault(cfgKeyTimeout, DefaultTimeout.String())
	dp.SetDefault(cfgKeyRateLimit, DefaultRateLimit)
	dp.SetDefault(cfgKeyMaxRetryAttempts, DefaultMaxRetryAttempts)
	dp.SetDefault(cfgKeyLoggingMode, string(httpclient.LoggingModeFailed))
	dp.SetDefault(cfgKeyLoggingSlowRequestThreshold, DefaultSlowRequestThreshold.String())
}

// Set sets LINE API client configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	if c.BaseURL, err = dp.GetString(cfgKeyBaseURL); err != nil {
		return err
	}

	if c.ChannelAccessToken, err = dp.GetString(cfgKeyChannelAccessToken); err != nil {
		return err
	}
	if c.ChannelAccessToken == "" {
		return config.WrapKeyErr(cfgKeyChannelAccessToken, errors.New("cannot be empty"))
	}

	timeout, err := dp.GetDuration(cfgKeyTimeout)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		return config.WrapKeyErr(cfgKeyTimeout, fmt.Errorf("must be positive, got %s", timeout))
	}
	c.Timeout = config.TimeDuration(timeout)

	if c.RateLimit, err = dp.GetInt(cfgKeyRateLimit); err != nil {
		return err
	}
	if c.RateLimit < 0 {
		return config.WrapKeyErr(cfgKeyRateLimit, fmt.Errorf("cannot be negative, got %d", c.RateLimit))
	}

	if c.MaxRetryAttempts, err = dp.GetInt(cfgKeyMaxRetryAttempts); err != nil {
		return err
	}
	if c.MaxRetryAttempts < 0 {
		return config.WrapKeyErr(cfgKeyMaxRetryAttempts, fmt.Errorf("cannot be negative, got %d", c.MaxRetryAttempts))
	}

	loggingMode, err := dp.GetString(cfgKeyLoggingMode)
	if err != nil {
		return err
	}
	if !httpclient.LoggingMode(loggingMode).IsValid() {
		return config.WrapKeyErr(cfgKeyLoggingMode, errors.New("must be one of: [none, all, failed]"))
	}
	c.Logging.Mode = httpclient.LoggingMode(loggingMode)

	slowRequestThreshold, err := dp.GetDuration(cfgKeyLoggingSlowRequestThreshold)
	if err != nil {
		return err
	}
	if slowRequestThreshold < 0 {
		return config.WrapKeyErr(cfgKeyLoggingSlowRequestThreshold,
			fmt.Errorf("cannot be negative, got %s", slowRequestThreshold))
	}
	c.Logging.SlowRequestThreshold = config.TimeDuration(slowRequestThreshold)

	return nil
}

// TransportConfig builds httpclient settings from the client configuration.
func (c *Config) TransportConfig() *httpclient.Config {
	return &httpclient.Config{
		Timeout:              time.Duration(c.Timeout),
		RateLimit:            c.RateLimit,
		MaxRetryAttempts:     c.MaxRetryAttempts,
		LoggingMode:          c.Logging.Mode,
		SlowRequestThreshold: time.Duration(c.Logging.SlowRequestThreshold),
	}
}
