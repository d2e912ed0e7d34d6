package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ssdwatch/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify paths, binaries and the notification backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			checkCtx := commandBase(cmd)

			report := newStatusReport(out)
			report.section("Configuration")
			configPath := ctx.configPath
			if configPath == "" {
				configPath = "(defaults)"
			}
			report.info("Config file", configPath)
			report.info("Browser backend", cfg.Browser.Backend)
			report.info("Schedule", cfg.Schedule.Cron)
			report.info("Only changes", yesNo(cfg.Notifications.OnlyChanges))

			results := preflight.RunAll(checkCtx, cfg)
			results = append(results, preflight.CheckNotificationsFromConfig(checkCtx, cfg))

			report.section("Readiness")
			for _, r := range results {
				report.result(r)
			}
			fmt.Fprintln(out, report.String())

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed: %s", len(failed), preflight.Summary(failed))
			}
			return nil
		},
	}
}
