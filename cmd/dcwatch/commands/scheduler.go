package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dcwatch/dcwatch/internal/scheduler"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the recurring pipeline refresh",
	Long: `Starts the cron scheduler with the daily refresh job, which re-runs
the full enrichment pipeline on the configured schedule (SCHEDULE_SPEC,
default 06:00 daily).

Example:
  go run ./cmd/dcwatch scheduler
  go run ./cmd/dcwatch scheduler --run-now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "run the refresh once immediately on startup")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

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

	if schedulerRunNow {
		if err := sched.RunJob(refresh.JobName); err != nil {
			return err
		}
	}

	fmt.Printf("Scheduler running (refresh: %s)\n", a.cfg.Schedule.Spec)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
