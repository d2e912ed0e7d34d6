package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ssdwatch/internal/history"
	"ssdwatch/internal/product"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var days int
	var runs int

	cmd := &cobra.Command{
		Use:   "history [identifier]",
		Short: "Show recorded prices",
		Long: `Without arguments, list every tracked identifier with its latest and lowest
recorded price. With an identifier, list the lowest price per day. --runs
lists recent runs instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			queryCtx := commandBase(cmd)
			var output string
			switch {
			case runs > 0:
				output, err = renderRuns(queryCtx, cmd, store, runs)
			case len(args) == 1:
				output, err = renderDailyMinimums(queryCtx, cmd, store, strings.TrimSpace(args[0]), days)
			default:
				output, err = renderSummary(queryCtx, cmd, store)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Number of days to show for an identifier")
	cmd.Flags().IntVar(&runs, "runs", 0, "List the N most recent runs")
	return cmd
}

func renderSummary(ctx context.Context, cmd *cobra.Command, store *history.Store) (string, error) {
	items, err := store.Summary(ctx)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "No history recorded yet", nil
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Identifier,
			product.Record{Title: item.Title}.DisplayTitle(50),
			valueOrDash(item.LatestPrice),
			product.FormatOptionalGBP(item.LowestPrice, item.HasLowest),
			strconv.Itoa(item.Observations),
			formatLocal(item.LastSeen),
		})
	}
	return renderTable(cmd.OutOrStdout(),
		[]string{"ID", "Title", "Latest", "Lowest", "Seen", "Last Seen"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	), nil
}

func renderDailyMinimums(ctx context.Context, cmd *cobra.Command, store *history.Store, id string, days int) (string, error) {
	if id == "" {
		return "", fmt.Errorf("identifier is required")
	}
	mins, err := store.DailyMinimums(ctx, id, days, time.Now())
	if err != nil {
		return "", err
	}
	if len(mins) == 0 {
		return fmt.Sprintf("No priced observations for %s in the last %d days", id, days), nil
	}
	rows := make([][]string, 0, len(mins))
	for _, m := range mins {
		rows = append(rows, []string{m.Day, product.FormatGBP(m.Price)})
	}
	return renderTable(cmd.OutOrStdout(), []string{"Day", "Lowest"}, rows, []columnAlignment{alignLeft, alignRight}), nil
}

func renderRuns(ctx context.Context, cmd *cobra.Command, store *history.Store, limit int) (string, error) {
	list, err := store.Runs(ctx, limit)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "No runs recorded yet", nil
	}
	rows := make([][]string, 0, len(list))
	for _, run := range list {
		rows = append(rows, []string{formatLocal(run.StartedAt), run.ID, strconv.Itoa(run.MatchCount)})
	}
	return renderTable(cmd.OutOrStdout(), []string{"Started", "Run", "Matches"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}), nil
}

func formatLocal(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
