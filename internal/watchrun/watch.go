package watchrun

import (
	"context"
	"errors"
	"log/slog"

	"github.com/robfig/cron/v3"

	"ssdwatch/internal/config"
	"ssdwatch/internal/logging"
	"ssdwatch/internal/services"
)

// Watch runs the pipeline on the configured cron schedule until ctx ends. A
// tick that fires while the previous run is still going is skipped, and the
// host lock keeps separate processes from overlapping.
func Watch(ctx context.Context, cfg *config.Config, runner *Runner) error {
	if cfg == nil || runner == nil {
		return services.Wrap(services.ErrConfiguration, "watch", "start", "config and runner are required", nil)
	}
	logger := logging.NewComponentLogger(runner.deps.Logger, "watch")
	cl := cronLogger{logger: logger}

	c := cron.New(
		cron.WithParser(config.CronParser),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	entryID, err := c.AddFunc(cfg.Schedule.Cron, func() {
		outcome, err := runner.RunOnce(ctx)
		switch {
		case err != nil && errors.Is(err, context.Canceled):
			logger.Info("scheduled run interrupted")
		case err != nil:
			logging.ErrorWithContext(logger, "scheduled run failed", "scheduled_run_failed",
				logging.Error(err),
				logging.RunID(outcome.RunID),
				logging.String(logging.FieldImpact, "no digest for this tick"),
			)
		case outcome.Skipped:
			logger.Info("scheduled run skipped; another run holds the lock")
		}
	})
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "watch", "schedule", cfg.Schedule.Cron, err)
	}

	c.Start()
	logger.Info("watching",
		logging.String("schedule", cfg.Schedule.Cron),
		logging.String("next_run", c.Entry(entryID).Next.Format("2006-01-02 15:04")),
	)

	<-ctx.Done()
	logger.Info("watch stopping; waiting for active run")
	<-c.Stop().Done()
	return nil
}

// cronLogger adapts slog to the cron.Logger interface. Scheduler chatter is
// demoted to debug.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	args := append([]any{logging.Error(err)}, keysAndValues...)
	l.logger.Error(msg, args...)
}
