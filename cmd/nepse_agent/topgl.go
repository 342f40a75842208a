package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skoirala/nepse-agent/internal/report"
)

var topglCmd = &cobra.Command{
	Use:   "topgl",
	Short: "Show today's top gainers and losers",
	RunE:  runTopGL,
}

func init() {
	rootCmd.AddCommand(topglCmd)
}

func runTopGL(cmd *cobra.Command, _ []string) error {
	client, err := newMarketClient()
	if err != nil {
		return err
	}

	gainers, losers, err := client.TopMovers(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Print(report.RenderMovers(gainers, losers))
	return nil
}
