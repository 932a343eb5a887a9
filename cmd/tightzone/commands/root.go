package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	marketFlag string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tightzone",
	Short: "TightZone - VCP screener for market scanners",
	Long: `TightZone screens a market for Volatility Contraction Pattern
candidates and renders their contraction zones.

Usage:
  go run ./cmd/tightzone [command]

Examples:
  go run ./cmd/tightzone scan --vcp
  go run ./cmd/tightzone scan --exchange NASDAQ --min-price 20
  go run ./cmd/tightzone payload
  go run ./cmd/tightzone charts --out charts
  go run ./cmd/tightzone api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&marketFlag, "market", "", "market to scan (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
