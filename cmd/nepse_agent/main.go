// Package main provides the nepse_agent command line interface.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nepse_agent",
	Short: "Meroshare IPO application agent",
	Long:  "nepse_agent applies for open IPO issues on Meroshare for every configured household member, and reads live NEPSE market data.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
