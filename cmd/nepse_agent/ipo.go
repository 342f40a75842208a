package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skoirala/nepse-agent/internal/report"
)

var ipoCmd = &cobra.Command{
	Use:   "ipo",
	Short: "List open IPO issues for the general public",
	RunE:  runIPO,
}

func init() {
	rootCmd.AddCommand(ipoCmd)
}

func runIPO(cmd *cobra.Command, _ []string) error {
	client, err := newMarketClient()
	if err != nil {
		return err
	}

	offerings, err := client.OpenIPOs(cmd.Context())
	if err != nil {
		return err
	}
	if len(offerings) == 0 {
		fmt.Println("No IPO issues are open right now.")
		return nil
	}

	fmt.Print(report.RenderOfferings(offerings, time.Now()))
	return nil
}
