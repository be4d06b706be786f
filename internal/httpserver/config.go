/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpserver

import (
	"fmt"
	"time"

	"github.com/acronis/go-linebot/internal/config"
)

const (
	cfgKeyServerAddress                 = "server.address"
	cfgKeyServerTimeoutsWrite           = "server.timeouts.write"
	cfgKeyServerTimeoutsRead            = "server.timeouts.read"
	cfgKeyServerTimeoutsReadHeader      = "server.timeouts.readHeader"
	cfgKeyServerTimeoutsIdle            = "server.timeouts.idle"
	cfgKeyServerTimeoutsShutdown        = "server.timeouts.shutdown"
	cfgKeyServerLimitsMaxBodySize       = "server.limits.maxBodySize"
	cfgKeyServerLogRequestStart         = "server.log.requestStart"
	cfgKeyServerLogSlowRequestThreshold = "server.log.slowRequestThreshold"
)

const (
	defaultServerAddress            = ":3000"
	defaultServerTimeoutsWrite      = time.Minute
	defaultServerTimeoutsRead       = time.Second * 15
	defaultServerTimeoutsReadHeader = time.Second * 10
	defaultServerTimeoutsIdle       = time.Minute
	defaultServerTimeoutsShutdown   = time.Second * 5
	defaultSlowRequestThreshold     = time.Second
	defaultServerMaxBodySizeBytes   = 1024 * 1024
)

// Config represents a set of configuration parameters for HTTPServer.
type Config struct {
	Address  string         `mapstructure:"address"`
	Timeouts TimeoutsConfig `mapstructure:"timeouts"`
	Limits   LimitsConfig   `mapstructure:"limits"`
	Log      LogConfig      `mapstructure:"log"`
}

// TimeoutsConfig represents a set of configuration parameters for HTTPServer relating to timeouts.
type TimeoutsConfig struct {
	Write      config.TimeDuration `mapstructure:"write"`
	Read       config.TimeDuration `mapstructure:"read"`
	ReadHeader config.TimeDuration `mapstructure:"readHeader"`
	Idle       config.TimeDuration `mapstructure:"idle"`
	Shutdown   config.TimeDuration `mapstructure:"shutdown"`
}

// LimitsConfig represents a set of configuration parameters for HTTPServer relating to limits.
type LimitsConfig struct {
	// MaxBodySizeBytes is the maximum size of the request body in bytes.
	MaxBodySizeBytes config.ByteSize `mapstructure:"maxBodySize"`
}

// LogConfig represents a set of configuration parameters for HTTPServer relating to logging.
type LogConfig struct {
	RequestStart         bool                `mapstructure:"requestStart"`
	SlowRequestThreshold config.TimeDuration `mapstructure:"slowRequestThreshold"`
}

var _ config.Config = (*Config)(nil)

// NewConfig creates a new instance of the Config.
func NewConfig() *Config {
	return &Config{}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Address: defaultServerAddress,
		Timeouts: TimeoutsConfig{
			Write:      config.TimeDuration(defaultServerTimeoutsWrite),
			Read:       config.TimeDuration(defaultServerTimeoutsRead),
			ReadHeader: config.TimeDuration(defaultServerTimeoutsReadHeader),
			Idle:       config.TimeDuration(defaultServerTimeoutsIdle),
			Shutdown:   config.TimeDuration(defaultServerTimeoutsShutdown),
		},
		Limits: LimitsConfig{
			MaxBodySizeBytes: config.ByteSize(defaultServerMaxBodySizeBytes),
		},
		Log: LogConfig{
			SlowRequestThreshold: config.TimeDuration(defaultSlowRequestThreshold),
		},
	}
}

// SetProviderDefaults sets default configuration values for HTTPServer in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyServerAddress, defaultServerAddress)

	dp.SetDefault(cfgKeyServerTimeoutsWrite, defaultServerTimeoutsWrite)
	dp.SetDefault(cfgKeyServerTimeoutsRead, defaultServerTimeoutsRead)
	dp.SetDefault(cfgKeyServerTimeoutsReadHeader, defaultServerTimeoutsReadHeader)
	dp.SetDefault(cfgKeyServerTimeoutsIdle, defaultServerTimeoutsIdle)
	dp.SetDefault(cfgKeyServerTimeoutsShutdown, defaultServerTimeoutsShutdown)

	dp.SetDefault(cfgKeyServerLimitsMaxBodySize, defaultServerMaxBodySizeBytes)

	dp.SetDefault(cfgKeyServerLogRequestStart, false)
	dp.SetDefault(cfgKeyServerLogSlowRequestThreshold, defaultSlowRequestThreshold)
}

// Set sets server configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	if c.Address, err = dp.GetString(cfgKeyServerAddress); err != nil {
		return err
	}
	if c.Address == "" {
		return config.WrapKeyErr(cfgKeyServerAddress, fmt.Errorf("cannot be empty"))
	}

	if err = c.setTimeouts(dp); err != nil {
		return err
	}

	var maxBodySize uint64
	if maxBodySize, err = dp.GetSizeInBytes(cfgKeyServerLimitsMaxBodySize); err != nil {
		return err
	}
	if maxBodySize == 0 {
		return config.WrapKeyErr(cfgKeyServerLimitsMaxBodySize, fmt.Errorf("must be positive"))
	}
	c.Limits.MaxBodySizeBytes = config.ByteSize(maxBodySize)

	if c.Log.RequestStart, err = dp.GetBool(cfgKeyServerLogRequestStart); err != nil {
		return err
	}
	var slowRequestThreshold time.Duration
	if slowRequestThreshold, err = dp.GetDuration(cfgKeyServerLogSlowRequestThreshold); err != nil {
		return err
	}
	c.Log.SlowRequestThreshold = config.TimeDuration(slowRequestThreshold)

	return nil
}

func (c *Config) setTimeouts(dp config.DataProvider) error {
	for _, item := range []struct {
		key string
		dst *config.TimeDuration
	}{
		{cfgKeyServerTimeoutsWrite, &c.Timeouts.Write},
		{cfgKeyServerTimeoutsRead, &c.Timeouts.Read},
		{cfgKeyServerTimeoutsReadHeader, &c.Timeouts.ReadHeader},
		{cfgKeyServerTimeoutsIdle, &c.Timeouts.Idle},
		{cfgKeyServerTimeoutsShutdown, &c.Timeouts.Shutdown},
	} {
		dur, err := dp.GetDuration(item.key)
		if err != nil {
			return err
		}
		if dur <= 0 {
			return config.WrapKeyErr(item.key, fmt.Errorf("must be positive"))
		}
		*item.dst = config.TimeDuration(dur)
	}
	return nil
}
