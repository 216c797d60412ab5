package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcwatch/dcwatch/internal/backtest"
	"github.com/dcwatch/dcwatch/internal/ingest"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest the copycat strategy over all disclosed purchases",
	Long: `Simulates buying each disclosed purchase on its disclosure date and
holding to 30 days, 90 days, and today. Compares against the benchmark
over the same windows and measures what the disclosure delay cost.

Writes backtest_results.json to the data directory.

Example:
  go run ./cmd/dcwatch backtest
  go run ./cmd/dcwatch backtest --benchmark VOO`,
	RunE: runBacktestCmd,
}

var backtestBenchmark string

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&backtestBenchmark, "benchmark", "", "benchmark ticker (default from BENCHMARK_TICKER)")
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if backtestBenchmark != "" {
		a.cfg.Prices.Benchmark = backtestBenchmark
	}

	trades, err := a.loader.LoadTrades()
	if err != nil {
		return err
	}

	resolver, err := a.newResolver()
	if err != nil {
		return err
	}

	engine := backtest.NewEngine(resolver, a.logger, a.cfg.Prices.Benchmark)
	report := engine.Run(cmd.Context(), trades, time.Now())

	if err := a.writer.WriteJSON(ingest.BacktestFile, report); err != nil {
		return err
	}

	fmt.Printf("Backtest complete: %d trades analyzed\n", report.TotalTradesAnalyzed)
	return nil
}
