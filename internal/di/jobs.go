package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/salesrace/pitwall/internal/config"
	"github.com/salesrace/pitwall/internal/modules/workbook"
	"github.com/salesrace/pitwall/internal/scheduler"
)

// RegisterJobs creates the scheduler and registers background jobs.
// The scheduler is not started here; main starts it once the server is up.
func RegisterJobs(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	container.Scheduler = scheduler.New(log)
	jobs := &JobInstances{}

	if !cfg.Feed.Enabled() {
		log.Info().Msg("No feed source configured, datasets arrive by upload only")
		return jobs, nil
	}

	if err := scheduler.ValidateSchedule(cfg.Feed.Schedule); err != nil {
		return nil, fmt.Errorf("invalid feed schedule %q: %w", cfg.Feed.Schedule, err)
	}

	source, err := workbook.NewSource(ctx, cfg.Feed.Source, cfg.Feed.S3.ToWorkbookConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed source: %w", err)
	}

	jobs.FeedRefresh = scheduler.NewFeedRefreshJob(container.DashboardService, source, cfg.Feed.Sheet, log)
	if err := container.Scheduler.AddJob(cfg.Feed.Schedule, jobs.FeedRefresh); err != nil {
		return nil, fmt.Errorf("failed to register feed refresh job: %w", err)
	}

	return jobs, nil
}
