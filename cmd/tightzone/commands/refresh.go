package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kitkwok/tightzone/internal/chart"
	"github.com/kitkwok/tightzone/internal/pipeline"
	"github.com/kitkwok/tightzone/internal/scheduler"
	"github.com/kitkwok/tightzone/internal/scheduler/jobs"
	"github.com/kitkwok/tightzone/pkg/redis"
)

var refreshNow bool

// refreshCmd runs the scheduled refresh worker, or a one-off refresh
// with --now.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run the scheduled scan refresh worker",
	Long: `Run the cron worker that periodically re-scans the market and
rebuilds the cached result set.

With --now the refresh runs once immediately and the command exits.

Example:
  go run ./cmd/tightzone refresh
  go run ./cmd/tightzone refresh --now`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.Flags().BoolVar(&refreshNow, "now", false, "run one refresh immediately and exit")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	d, err := setup()
	if err != nil {
		return err
	}

	rdb, err := redis.New(d.cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	cache := redis.NewCache(rdb, "tightzone")
	charts := chart.NewGenerator(d.quotes, d.log, "6mo", "1d")

	pipe := pipeline.New(d.scanner, d.quotes, charts, cache, d.log, pipeline.Config{
		Market:   d.cfg.Market,
		PageSize: d.cfg.PageSize,
		ChartDir: d.cfg.ChartDir,
		CacheTTL: d.cfg.Redis.CacheTTL,
	})

	job := jobs.NewRefreshJob(pipe, d.cfg.RefreshSchedule, d.log)

	if refreshNow {
		return job.Run(cmd.Context())
	}

	sched := scheduler.New(d.log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}

	sched.Start()
	d.log.WithField("schedule", d.cfg.RefreshSchedule).Info("Refresh worker started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
