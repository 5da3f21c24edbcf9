package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"storyreel/internal/config"
	"storyreel/internal/story"
)

func newNarrateCommand(ctx *commandContext) *cobra.Command {
	var storiesPath, outputDir string
	var index int
	var all bool

	cmd := &cobra.Command{
		Use:   "narrate",
		Short: "Synthesize narration audio for one or all stories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (index > 0) {
				return errors.New("choose exactly one of --index or --all")
			}
			collection, err := ctx.loadStories(storiesPath)
			if err != nil {
				return err
			}
			dir := strings.TrimSpace(outputDir)
			if dir != "" {
				if dir, err = config.ExpandPath(dir); err != nil {
					return err
				}
			}
			stories := collection.Stories
			if !all {
				selected, err := selectStory(collection, index)
				if err != nil {
					return err
				}
				stories = []story.Story{selected}
			}

			p, closeHistory, err := ctx.newPipeline()
			if err != nil {
				return err
			}
			defer closeHistory()

			narrations, batchErr := p.NarrateBatch(cmd.Context(), stories, dir)
			rows := make([][]string, 0, len(narrations))
			for _, n := range narrations {
				result := n.AudioPath
				if n.Err != nil {
					result = "failed: " + n.Err.Error()
				}
				number := n.Index + 1
				if !all {
					number = index
				}
				rows = append(rows, []string{strconv.Itoa(number), n.Title, result})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{numCol("#"), textCol("Title"), textCol("Audio")}, rows))
			return batchErr
		},
	}

	cmd.Flags().StringVar(&storiesPath, "stories", "", "Story harvest file (default: newest in stories_dir)")
	cmd.Flags().IntVarP(&index, "index", "n", 0, "1-based story number from storyreel stories list")
	cmd.Flags().BoolVar(&all, "all", false, "Narrate every story in the file")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the MP3 files (default: a timestamped audio_ directory)")
	return cmd
}
