// Package commands wires the dcwatch CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	dataDirFlag string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dcwatch",
	Short: "dcwatch - congressional stock trade analytics",
	Long: `dcwatch analyzes disclosed congressional stock trades.

It enriches raw trade filings with market prices, builds politician
leaderboards, detects multi-politician trading clusters, ranks current
top picks, and backtests a copycat strategy against the market.

Usage:
  go run ./cmd/dcwatch [command]

Examples:
  go run ./cmd/dcwatch enrich
  go run ./cmd/dcwatch backtest
  go run ./cmd/dcwatch build-db
  go run ./cmd/dcwatch api
  go run ./cmd/dcwatch scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default from DATA_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
