package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcwatch/dcwatch/internal/enrich"
	"github.com/dcwatch/dcwatch/internal/ingest"
	"github.com/dcwatch/dcwatch/internal/leaderboard"
	"github.com/dcwatch/dcwatch/internal/picks"
	"github.com/dcwatch/dcwatch/internal/signals"
)

// enrichCmd represents the enrich command
var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich trades with prices and rebuild all analysis artifacts",
	Long: `Runs the full enrichment pipeline:

1. Load trades.json and normalize it
2. Enrich every trade with historical and current prices
3. Write enriched trades back to trades.json
4. Rebuild summary.json (politician leaderboard)
5. Rebuild latest.json (most recent trades)
6. Rebuild signals.json (trading clusters)
7. Rebuild top_picks.json (current watch-list)

Example:
  go run ./cmd/dcwatch enrich
  go run ./cmd/dcwatch enrich --data-dir ./data`,
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	return runEnrichPipeline(cmd.Context(), a)
}

// runEnrichPipeline is the refresh body shared by the enrich command and the
// scheduler job.
func runEnrichPipeline(ctx context.Context, a *app) error {
	trades, err := a.loader.LoadTrades()
	if err != nil {
		return err
	}

	resolver, err := a.newResolver()
	if err != nil {
		return err
	}

	pipeline := enrich.NewPipeline(resolver, a.logger)
	pipeline.Run(ctx, trades)

	if err := a.writer.WriteJSON(ingest.TradesFile, trades); err != nil {
		return err
	}

	now := time.Now()

	summary := leaderboard.Build(trades, now)
	if err := a.writer.WriteJSON(ingest.SummaryFile, summary); err != nil {
		return err
	}
	a.logger.Infof("Built summary for %d politicians", len(summary))

	if err := a.writer.WriteJSON(ingest.LatestFile, ingest.Latest(trades)); err != nil {
		return err
	}

	detected := signals.Detect(trades)
	if err := a.writer.WriteJSON(ingest.SignalsFile, detected); err != nil {
		return err
	}
	a.logger.Infof("Detected %d trading signals", len(detected))

	topPicks := picks.Build(trades, summary, now)
	if err := a.writer.WriteJSON(ingest.TopPicksFile, topPicks); err != nil {
		return err
	}
	a.logger.Infof("Built %d top picks", len(topPicks))

	fmt.Println("Enrichment complete")
	return nil
}
