package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ssdwatch/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification through the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			messenger, err := notifications.NewMessenger(cfg)
			if err != nil {
				return err
			}
			notifier := notifications.NewNotifier(messenger, nil, notifications.Options{
				Channel: cfg.Notifications.Channel,
				Target:  cfg.Notifications.Target,
				Title:   cfg.Notifications.Title,
				Stdout:  cmd.OutOrStdout(),
				Logger:  logger,
			})
			if err := notifier.SendTest(commandBase(cmd)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Test notification sent via %s\n", cfg.Notifications.Backend)
			return nil
		},
	}
}
