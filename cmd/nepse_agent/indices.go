package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skoirala/nepse-agent/internal/report"
)

var indicesCmd = &cobra.Command{
	Use:   "indices",
	Short: "Show the live NEPSE index board",
	RunE:  runIndices,
}

func init() {
	rootCmd.AddCommand(indicesCmd)
}

func runIndices(cmd *cobra.Command, _ []string) error {
	client, err := newMarketClient()
	if err != nil {
		return err
	}

	indices, asOf, err := client.Indices(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Print(report.RenderIndices(indices, asOf))
	return nil
}
