package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcwatch/dcwatch/internal/store"
	"github.com/dcwatch/dcwatch/pkg/database"
)

// storeCmd represents the build-db command
var storeCmd = &cobra.Command{
	Use:   "build-db",
	Short: "Rebuild the Postgres database from enriched trades",
	Long: `Loads enriched trades from trades.json and rebuilds the database:

1. Drop and recreate the trades, politicians, and tickers tables
2. Insert all trades
3. Aggregate per-politician and per-ticker rows in SQL

Requires DATABASE_URL.

Example:
  go run ./cmd/dcwatch build-db`,
	RunE: runStore,
}

func init() {
	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	trades, err := a.loader.LoadTrades()
	if err != nil {
		return err
	}

	db, err := database.New(a.cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	a.logger.Info("Connected to database")

	repo := store.NewRepository(db.Pool, a.logger)
	if err := repo.Build(cmd.Context(), trades, time.Now()); err != nil {
		return err
	}

	fmt.Println("Database build complete")
	return nil
}
