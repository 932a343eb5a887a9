package jobs

import (
	"context"
	"fmt"

	"github.com/kitkwok/tightzone/internal/pipeline"
	"github.com/kitkwok/tightzone/pkg/logger"
)

// RefreshJob re-runs the full VCP pipeline into the cache so API readers
// always see a warm result set.
type RefreshJob struct {
	pipeline *pipeline.Pipeline
	schedule string
	logger   *logger.Logger
}

// NewRefreshJob creates a refresh job with the given cron schedule.
func NewRefreshJob(p *pipeline.Pipeline, schedule string, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		pipeline: p,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name.
func (j *RefreshJob) Name() string {
	return "refresh"
}

// Schedule returns the cron schedule expression.
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run executes a forced pipeline refresh.
func (j *RefreshJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled scan refresh")

	rows, err := j.pipeline.Stocks(ctx, true)
	if err != nil {
		return fmt.Errorf("refresh scan: %w", err)
	}

	j.logger.WithField("rows", len(rows)).Info("Scheduled scan refresh completed")
	return nil
}
