package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skoirala/nepse-agent/internal/config"
	"github.com/skoirala/nepse-agent/internal/logger"
	"github.com/skoirala/nepse-agent/internal/market"
	"github.com/skoirala/nepse-agent/internal/store"
)

// loadSettings resolves the data directory and reads agent.yaml plus
// NEPSE_ environment overrides from it.
func loadSettings() (*config.Settings, error) {
	dir, err := store.DataDir()
	if err != nil {
		return nil, err
	}
	return config.Load(dir)
}

// newMarketClient builds a market client from the loaded settings.
func newMarketClient() (*market.Client, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	log := logger.NewStructured(settings.LogLevel, settings.LogFormat)
	return market.NewClient(settings.MarketTimeout, log), nil
}

// signalContext cancels on SIGINT or SIGTERM so an interrupted run aborts
// remaining workflows instead of leaving Chrome behind.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// applyVisibility folds a --visible flag into the headless setting, but only
// when the flag was given so config and environment keep their say.
func applyVisibility(cmd *cobra.Command, settings *config.Settings, visible bool) {
	if cmd.Flags().Changed("visible") {
		settings.Headless = !visible
	}
}
