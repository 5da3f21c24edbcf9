package main

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"storyreel/internal/language"
)

func newStoriesCommand(ctx *commandContext) *cobra.Command {
	storiesCmd := &cobra.Command{
		Use:   "stories",
		Short: "Inspect harvested stories",
	}
	storiesCmd.AddCommand(newStoriesListCommand(ctx))
	return storiesCmd
}

func newStoriesListCommand(ctx *commandContext) *cobra.Command {
	var storiesPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the stories available for narration",
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := ctx.loadStories(storiesPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Stories from %s\n", collection.Path)
			if len(collection.Stories) == 0 {
				fmt.Fprintln(out, "No usable stories.")
				return nil
			}

			rows := make([][]string, 0, len(collection.Stories))
			for i, s := range collection.Stories {
				lang := "Unknown"
				if code := s.Language(); code != "" {
					lang = language.DisplayName(code)
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					truncate(s.Title, 48),
					truncate(s.Author, 20),
					strconv.Itoa(utf8.RuneCountInString(s.Content)),
					lang,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]column{numCol("#"), textCol("Title"), textCol("Author"), numCol("Chars"), textCol("Language")},
				rows,
			))
			if n := len(collection.Rejected); n > 0 {
				fmt.Fprintf(out, "%d record(s) skipped; rerun with --log-level debug for details\n", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storiesPath, "stories", "", "Story harvest file (default: newest in stories_dir)")
	return cmd
}

func truncate(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit-1]) + "…"
}
