package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"storyreel/internal/config"
	"storyreel/internal/logging"
	"storyreel/internal/subtitles"
	"storyreel/internal/transcribe"
)

func newSubtitlesCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var lang string

	cmd := &cobra.Command{
		Use:   "subtitles <audio>",
		Short: "Transcribe narration audio into an SRT file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("provide the path to the narration audio. Example: storyreel subtitles audio/story.mp3\nRun storyreel subtitles --help for more details")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			info, err := os.Stat(source)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("audio file %q not found", source)
				}
				return fmt.Errorf("stat audio: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("audio path %q is a directory", source)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			target := strings.TrimSpace(outputPath)
			if target == "" {
				base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
				base = strings.TrimPrefix(base, "story_")
				target = filepath.Join(cfg.Paths.SubtitlesDir, base+"_subs.srt")
			} else if target, err = config.ExpandPath(target); err != nil {
				return err
			}

			transcriber, err := transcribe.New(cfg)
			if err != nil {
				return err
			}
			logger := ctx.logger()
			logger.Info("transcribing narration",
				logging.String(logging.FieldEventType, "transcription_started"),
				logging.String("audio", source),
				logging.String("provider", transcriber.Name()),
			)
			segments, err := transcriber.Transcribe(cmd.Context(), source, lang)
			if err != nil {
				return err
			}
			if err := transcribe.WriteSRT(target, segments); err != nil {
				return err
			}
			entries := transcribe.ToEntries(segments)
			for _, issue := range subtitles.Validate(entries, 0) {
				logging.WarnWithContext(logger, "subtitle validation issue", "subtitle_validation_issue",
					logging.String("issue", issue),
					logging.String("path", target),
					logging.String(logging.FieldImpact, "captions may be mistimed or missing"),
					logging.String(logging.FieldErrorHint, "review the SRT before rendering"),
				)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d subtitle entries to %s\n", len(entries), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination SRT (default: <subtitles_dir>/<name>_subs.srt)")
	cmd.Flags().StringVar(&lang, "language", "", `Language hint such as "en", or "auto" to let the model detect it`)
	return cmd
}
