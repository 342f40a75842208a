// Package config loads agent settings from agent.yaml in the data directory,
// NEPSE_ environment variables, and coded defaults, in that priority order
// (env wins over file, file wins over defaults).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds every tunable the agent reads at startup.
type Settings struct {
	// PortalURL is the Meroshare base URL, without a trailing slash.
	PortalURL string `mapstructure:"portal_url"`
	// Headless controls whether Chrome runs without a visible window.
	Headless bool `mapstructure:"headless"`
	// StageTimeout bounds each workflow stage, including its waits.
	StageTimeout time.Duration `mapstructure:"stage_timeout"`
	// RetryBound is the number of extra attempts after a retryable failure.
	RetryBound int `mapstructure:"retry_bound"`
	// RetryBackoff is the pause before re-entering a failed stage.
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	// MarketTimeout bounds each market-data HTTP request.
	MarketTimeout time.Duration `mapstructure:"market_timeout"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// LogFormat is console or json.
	LogFormat string `mapstructure:"log_format"`
}

// Load reads agent.yaml from configDir (ignored when missing), applies
// NEPSE_ environment overrides, and fills defaults.
func Load(configDir string) (*Settings, error) {
	v := viper.New()
	v.SetConfigName("agent")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("NEPSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("portal_url", "https://meroshare.cdsc.com.np")
	v.SetDefault("headless", true)
	v.SetDefault("stage_timeout", 45*time.Second)
	v.SetDefault("retry_bound", 2)
	v.SetDefault("retry_backoff", 500*time.Millisecond)
	v.SetDefault("market_timeout", 10*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading agent config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("parsing agent config: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects values the engine cannot run with.
func (s *Settings) Validate() error {
	if s.PortalURL == "" {
		return fmt.Errorf("config error: portal_url must not be empty")
	}
	if s.StageTimeout <= 0 {
		return fmt.Errorf("config error: stage_timeout must be positive")
	}
	if s.RetryBound < 0 {
		return fmt.Errorf("config error: retry_bound must be non-negative")
	}
	if s.RetryBackoff < 0 {
		return fmt.Errorf("config error: retry_backoff must be non-negative")
	}
	if s.MarketTimeout <= 0 {
		return fmt.Errorf("config error: market_timeout must be positive")
	}
	return nil
}
