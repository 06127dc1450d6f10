// Package config loads the harness configuration from an optional config
// file plus BRIDGE_* environment overrides.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

// Defaults applied when neither the config file nor the environment
// provides a value. The admin credentials match the account the in-process
// test server seeds.
const (
	DefaultAppID          = "api"
	DefaultAdminEmail     = "bridge-testing+admin@example.org"
	DefaultAdminPassword  = "P4ssword!"
	DefaultLogLevel       = "info"
	DefaultRequestTimeout = 30 * time.Second
)

// Config holds harness settings. An empty APIURL selects the in-process
// test server; a non-empty one points the fixtures at a live backend.
type Config struct {
	APIURL         string        `mapstructure:"api_url"`
	AppID          string        `mapstructure:"app_id"`
	AdminEmail     string        `mapstructure:"admin_email"`
	AdminPassword  string        `mapstructure:"admin_password"`
	LogLevel       string        `mapstructure:"log_level"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Load reads bridge.yaml from the working directory if present, applies
// environment overrides, and validates the result. A missing config file
// is not an error; missing required fields after defaulting is.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("bridge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("api_url", "")
	v.SetDefault("app_id", DefaultAppID)
	v.SetDefault("admin_email", DefaultAdminEmail)
	v.SetDefault("admin_password", DefaultAdminPassword)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("request_timeout", DefaultRequestTimeout)

	v.SetEnvPrefix("BRIDGE")
	v.AutomaticEnv()
	for _, key := range []string{"api_url", "app_id", "admin_email", "admin_password", "log_level", "request_timeout"} {
		if err := v.BindEnv(key); err != nil {
			return nil, bridge.WrapError(err, "failed to bind environment variable")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, bridge.WrapError(err, "failed to read config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, bridge.WrapError(err, "failed to unmarshal configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for usable values.
func (c *Config) Validate() error {
	if c.AppID == "" {
		return bridge.NewError(bridge.KindBadRequest, "app_id must not be empty")
	}
	if c.AdminEmail == "" || c.AdminPassword == "" {
		return bridge.NewError(bridge.KindBadRequest, "admin credentials must be configured")
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	return nil
}
