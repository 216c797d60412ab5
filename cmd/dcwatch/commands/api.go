package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcwatch/dcwatch/internal/api"
	"github.com/dcwatch/dcwatch/internal/api/handlers"
	"github.com/dcwatch/dcwatch/internal/scheduler"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the analysis artifacts over HTTP",
	Long: `Starts the read-only REST API over the JSON artifacts.

Endpoints:
  GET /health            - Health check
  GET /api/trades        - Enriched trades (?limit=N)
  GET /api/latest        - Most recent trades
  GET /api/summary       - Politician leaderboard
  GET /api/signals       - Trading clusters
  GET /api/top-picks     - Current watch-list
  GET /api/backtest      - Copycat backtest report

Example:
  go run ./cmd/dcwatch api
  go run ./cmd/dcwatch api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	artifacts := handlers.NewArtifactHandler(a.cfg.DataDir, a.logger)
	router := api.NewRouter(artifacts, a.logger)
	server := api.New(a.cfg, a.logger, router)

	// Optionally refresh the artifacts in-process on the cron schedule.
	if a.cfg.Schedule.Enabled {
		sched := scheduler.New(a.logger)
		refresh := &scheduler.FuncJob{
			JobName:  "daily-refresh",
			CronSpec: a.cfg.Schedule.Spec,
			Fn: func(ctx context.Context) error {
				return runEnrichPipeline(ctx, a)
			},
		}
		if err := sched.AddJob(refresh); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	go func() {
		if err := server.Start(); err != nil {
			a.logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.logger.Info("Server stopped")
	return nil
}
