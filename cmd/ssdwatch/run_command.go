package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ssdwatch/internal/watchrun"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check every listed product once and send the digest",
		Long: `Fetch each identifier in the source list, keep the genuine 4TB NVMe drives
and send one digest. The digest is always printed to stdout. If another run
holds the lock the command exits quietly with status 0.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// Contention exits before the log file is opened or pruned.
			guard, acquired, err := watchrun.AcquireLock(cfg)
			if err != nil {
				return err
			}
			if !acquired {
				return nil
			}
			defer func() { _ = guard.Release() }()

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(commandBase(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runner := watchrun.New(cfg, watchrun.Deps{
				Logger: logger,
				Stdout: cmd.OutOrStdout(),
				Guard:  guard,
			}, watchrun.Options{DryRun: dryRun})
			_, err = runner.RunOnce(runCtx)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the digest without sending it or recording history")
	return cmd
}

func commandBase(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
