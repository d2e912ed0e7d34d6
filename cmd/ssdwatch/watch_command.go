package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ssdwatch/internal/watchrun"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the check on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if schedule != "" {
				cfg.Schedule.Cron = schedule
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			watchCtx, cancel := signal.NotifyContext(commandBase(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runner := watchrun.New(cfg, watchrun.Deps{
				Logger: logger,
				Stdout: cmd.OutOrStdout(),
			}, watchrun.Options{})
			return watchrun.Watch(watchCtx, cfg, runner)
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "Override schedule.cron for this process")
	return cmd
}
