package cronjobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// InitCronJobs schedules the snapshot ingestion job and starts the scheduler.
// The caller stops it with Stop on shutdown.
func InitCronJobs(ctx context.Context, schedule string, capture func(context.Context) bool) (*cron.Cron, error) {
	log.Info().Str("schedule", schedule).Msg("starting cron jobs")
	logger := cron.PrintfLogger(&log.Logger)
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))

	_, err := c.AddFunc(schedule, func() {
		if ctx.Err() != nil {
			return
		}
		if !capture(ctx) {
			log.Debug().Msg("CronJob: snapshot not stored")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule snapshot job %q: %w", schedule, err)
	}

	c.Start()
	return c, nil
}
