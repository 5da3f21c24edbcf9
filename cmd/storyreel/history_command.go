package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	textlang "golang.org/x/text/language"

	"storyreel/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]column{textCol("Started"), textCol("Story"), textCol("Status"), textCol("Stage"), numCol("Elapsed"), textCol("Result")},
				historyRows(runs),
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}

func historyRows(runs []history.Run) [][]string {
	title := cases.Title(textlang.English)
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		result := run.OutputPath
		if run.Status == history.StatusFailed {
			result = fmt.Sprintf("%s: %s", run.ErrorKind, truncate(run.ErrorMessage, 60))
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(run.StoryTitle, 40),
			title.String(string(run.Status)),
			run.Stage,
			run.Elapsed().Round(time.Second).String(),
			result,
		})
	}
	return rows
}
