package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"storyreel/internal/config"
	"storyreel/internal/render"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var videoPath, audioPath, srtPath, outputPath, vttPath string
	var testDuration float64

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Burn word-by-word captions from an SRT file onto a background video",
		Example: "  storyreel render --video videos/parkour.mp4 --audio audio/story.mp3 \\\n" +
			"    --srt subtitles/story_subs.srt --output final_videos/story.mp4 --test-duration 15",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := render.Request{TestDuration: testDuration}
			for _, p := range []struct {
				flag   string
				value  string
				target *string
			}{
				{"--video", videoPath, &req.VideoPath},
				{"--audio", audioPath, &req.AudioPath},
				{"--srt", srtPath, &req.SRTPath},
				{"--output", outputPath, &req.OutputPath},
				{"--captions-vtt", vttPath, &req.CaptionsVTTPath},
			} {
				value := strings.TrimSpace(p.value)
				if value == "" {
					continue
				}
				expanded, err := config.ExpandPath(value)
				if err != nil {
					return fmt.Errorf("%s: %w", p.flag, err)
				}
				*p.target = expanded
			}

			engine, err := ctx.newEngine()
			if err != nil {
				return err
			}
			result, err := engine.CreateFinalVideo(cmd.Context(), req)
			if err != nil {
				return err
			}
			printRenderSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&videoPath, "video", "", "Background video")
	cmd.Flags().StringVar(&audioPath, "audio", "", "Narration audio")
	cmd.Flags().StringVar(&srtPath, "srt", "", "Subtitles for the narration")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination video")
	cmd.Flags().Float64Var(&testDuration, "test-duration", 0, "Render only the first N seconds")
	cmd.Flags().StringVar(&vttPath, "captions-vtt", "", "Also write the word captions as a WebVTT sidecar")
	for _, name := range []string{"video", "audio", "srt", "output"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func printRenderSummary(out io.Writer, result render.Result) {
	rows := [][]string{
		{"Output", result.OutputPath},
		{"Duration", fmt.Sprintf("%.3fs", result.Duration)},
		{"Frame", fmt.Sprintf("%dx%d @ %s fps", result.Width, result.Height, formatFPS(result.FrameRate))},
		{"Captioned words", fmt.Sprintf("%d", result.Overlays)},
		{"Skipped words", fmt.Sprintf("%d", len(result.Skipped))},
		{"Dropped entries", fmt.Sprintf("%d", len(result.Warnings))},
	}
	if result.CaptionsVTTPath != "" {
		rows = append(rows, []string{"Captions", result.CaptionsVTTPath})
	}
	rows = append(rows, []string{"Elapsed", result.Elapsed.Round(1e6).String()})
	fmt.Fprintln(out, renderTable([]column{textCol("Render"), textCol("Value")}, rows))
}

func formatFPS(fps float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", fps), "0"), ".")
}
