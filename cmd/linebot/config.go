/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package main

import (
	"github.com/acronis/go-linebot/internal/config"
	"github.com/acronis/go-linebot/internal/httpserver"
	"github.com/acronis/go-linebot/internal/lineapi"
	"github.com/acronis/go-linebot/internal/log"
	"github.com/acronis/go-linebot/internal/ratelimit"
	"github.com/acronis/go-linebot/internal/webhook"
)

// AppConfig is the aggregate of all service configuration sections.
type AppConfig struct {
	Log       *log.Config        `mapstructure:"log"`
	Server    *httpserver.Config `mapstructure:"server"`
	RateLimit *ratelimit.Config  `mapstructure:"rateLimit"`
	LineAPI   *lineapi.Config    `mapstructure:"lineApi"`
	Webhook   *webhook.Config    `mapstructure:"webhook"`
}

var _ config.Config = (*AppConfig)(nil)

// NewAppConfig creates a new AppConfig.
func NewAppConfig() *AppConfig {
	return &AppConfig{
		Log:       log.NewDefaultConfig(),
		Server:    httpserver.NewConfig(),
		RateLimit: ratelimit.NewDefaultConfig(),
		LineAPI:   lineapi.NewDefaultConfig(),
		Webhook:   webhook.NewConfig(),
	}
}

func (c *AppConfig) sections() []config.Config {
	return []config.Config{c.Log, c.Server, c.RateLimit, c.LineAPI, c.Webhook}
}

// SetProviderDefaults sets default configuration values in config.DataProvider.
func (c *AppConfig) SetProviderDefaults(dp config.DataProvider) {
	for _, section := range c.sections() {
		section.SetProviderDefaults(dp)
	}
}

// Set sets configuration values from config.DataProvider.
func (c *AppConfig) Set(dp config.DataProvider) error {
	for _, section := range c.sections() {
		if err := section.Set(dp); err != nil {
			return err
		}
	}
	return nil
}
