package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skoirala/nepse-agent/internal/report"
)

var mktsumCmd = &cobra.Command{
	Use:   "mktsum",
	Short: "Show the market summary",
	Long:  "Shows the headline NEPSE snapshot plus sector turnover, top turnover, traded, transaction, and broker boards.",
	RunE:  runMktsum,
}

func init() {
	rootCmd.AddCommand(mktsumCmd)
}

func runMktsum(cmd *cobra.Command, _ []string) error {
	client, err := newMarketClient()
	if err != nil {
		return err
	}

	snap, err := client.HomeSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	// The boards come from a second source; the headline still renders
	// when it is unreachable.
	summary, err := client.MarketSummary(cmd.Context())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: market boards unavailable: %v\n", err)
		summary = nil
	}

	fmt.Print(report.RenderMarketSummary(snap, summary))
	return nil
}
