/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"fmt"
	"time"

	"github.com/acronis/go-linebot/internal/config"
)

const (
	cfgKeyMaxRequests     = "rateLimit.maxRequests"
	cfgKeyWindow          = "rateLimit.window"
	cfgKeyCleanupInterval = "rateLimit.cleanupInterval"
)

// Default values of configuration parameters.
const (
	DefaultMaxRequests     = 10
	DefaultWindow          = time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

// Config represents a set of configuration parameters for the fixed-window rate limiter.
type Config struct {
	// MaxRequests is the maximum number of admitted requests per key within one window.
	MaxRequests int `mapstructure:"maxRequests" yaml:"maxRequests" json:"maxRequests"`

	// Window is the duration of the counting window.
	Window config.TimeDuration `mapstructure:"window" yaml:"window" json:"window"`

	// CleanupInterval is how often stale entries are swept from the key map.
	CleanupInterval config.TimeDuration `mapstructure:"cleanupInterval" yaml:"cleanupInterval" json:"cleanupInterval"`
}

var _ config.Config = (*Config)(nil)

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		MaxRequests:     DefaultMaxRequests,
		Window:          config.TimeDuration(DefaultWindow),
		CleanupInterval: config.TimeDuration(DefaultCleanupInterval),
	}
}

// SetProviderDefaults sets default configuration values for the rate limiter in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyMaxRequests, DefaultMaxRequests)
	dp.SetDefault(cfgKeyWindow, DefaultWindow.String())
	dp.SetDefault(cfgKeyCleanupInterval, DefaultCleanupInterval.String())
}

// Set sets rate limiter configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	maxRequests, err := dp.GetInt(cfgKeyMaxRequests)
	if err != nil {
		return err
	}
	if maxRequests <= 0 {
		return config.WrapKeyErr(cfgKeyMaxRequests, fmt.Errorf("must be positive, got %d", maxRequests))
	}
	c.MaxRequests = maxRequests

	window, err := dp.GetDuration(cfgKeyWindow)
	if err != nil {
		return err
	}
	if window <= 0 {
		return config.WrapKeyErr(cfgKeyWindow, fmt.Errorf("must be positive, got %s", window))
	}
	c.Window = config.TimeDuration(window)

	cleanupInterval, err := dp.GetDuration(cfgKeyCleanupInterval)
	if err != nil {
		return err
	}
	if cleanupInterval <= 0 {
		return config.WrapKeyErr(cfgKeyCleanupInterval, fmt.Errorf("must be positive, got %s", cleanupInterval))
	}
	c.CleanupInterval = config.TimeDuration(cleanupInterval)

	return nil
}
