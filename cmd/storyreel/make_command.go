package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storyreel/internal/config"
	"storyreel/internal/deps"
	"storyreel/internal/pipeline"
	"storyreel/internal/preflight"
)

func newMakeCommand(ctx *commandContext) *cobra.Command {
	var storiesPath, videoPath string
	var index int
	var testDuration float64
	var reuse, vtt, skipChecks bool

	cmd := &cobra.Command{
		Use:   "make",
		Short: "Narrate, transcribe and render one story end to end",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			video, err := config.ExpandPath(strings.TrimSpace(videoPath))
			if err != nil {
				return err
			}

			if !skipChecks {
				if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
					return fmt.Errorf("preflight failed: %s: %s (run storyreel doctor)", failed[0].Name, failed[0].Detail)
				}
				if missing, ok := deps.FirstMissing(preflight.CheckSystemDeps(cfg)); ok {
					return fmt.Errorf("preflight failed: %s: %s (run storyreel doctor)", missing.Name, missing.Detail)
				}
			}

			collection, err := ctx.loadStories(storiesPath)
			if err != nil {
				return err
			}
			selected, err := selectStory(collection, index)
			if err != nil {
				return err
			}

			p, closeHistory, err := ctx.newPipeline()
			if err != nil {
				return err
			}
			defer closeHistory()

			result, err := p.Run(cmd.Context(), pipeline.RunRequest{
				Story:        selected,
				VideoPath:    video,
				TestDuration: testDuration,
				SkipExisting: reuse,
				CaptionsVTT:  vtt,
			})
			if err != nil {
				return fmt.Errorf("run %s: %w", result.RunID, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s\n", result.RunID)
			fmt.Fprintf(out, "  Audio:     %s (reused: %s)\n", result.AudioPath, yesNo(result.ReusedAudio))
			fmt.Fprintf(out, "  Subtitles: %s (reused: %s)\n", result.SubtitlePath, yesNo(result.ReusedSRT))
			printRenderSummary(out, result.Render)
			return nil
		},
	}

	cmd.Flags().StringVar(&storiesPath, "stories", "", "Story harvest file (default: newest in stories_dir)")
	cmd.Flags().IntVarP(&index, "index", "n", 0, "1-based story number from storyreel stories list")
	cmd.Flags().StringVar(&videoPath, "video", "", "Background video")
	cmd.Flags().Float64Var(&testDuration, "test-duration", 0, "Render only the first N seconds")
	cmd.Flags().BoolVar(&reuse, "reuse", false, "Reuse the newest narration and subtitles from an earlier run")
	cmd.Flags().BoolVar(&vtt, "captions-vtt", false, "Also write the word captions as a WebVTT sidecar")
	cmd.Flags().BoolVar(&skipChecks, "skip-preflight", false, "Start without checking directories, binaries and API keys")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("video")
	return cmd
}
