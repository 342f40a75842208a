package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skoirala/nepse-agent/internal/market"
	"github.com/skoirala/nepse-agent/internal/report"
)

var subindexCmd = &cobra.Command{
	Use:   "subindex NAME",
	Short: "Show one NEPSE sub-index",
	Long:  "Shows a single sub-index by symbol or sector name, e.g. 'subindex BANKING' or 'subindex hydro'.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubindex,
}

func init() {
	rootCmd.AddCommand(subindexCmd)
}

func runSubindex(cmd *cobra.Command, args []string) error {
	client, err := newMarketClient()
	if err != nil {
		return err
	}

	idx, asOf, err := client.SubIndex(cmd.Context(), args[0])
	if err != nil {
		var notFound *market.SubIndexNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("no sub-index matches %q; available: %s",
				notFound.Name, strings.Join(notFound.Available, ", "))
		}
		return err
	}

	fmt.Print(report.RenderSubIndex(idx, asOf))
	return nil
}
