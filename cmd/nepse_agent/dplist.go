package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skoirala/nepse-agent/internal/report"
)

var dplistCmd = &cobra.Command{
	Use:   "dplist",
	Short: "List depository participants",
	Long:  "Lists every depository participant registered with CDSC. The ID column is the dp_value used when adding members.",
	RunE:  runDPList,
}

func init() {
	rootCmd.AddCommand(dplistCmd)
}

func runDPList(cmd *cobra.Command, _ []string) error {
	client, err := newMarketClient()
	if err != nil {
		return err
	}

	dps, err := client.DPList(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Print(report.RenderDPs(dps))
	return nil
}
