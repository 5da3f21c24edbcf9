package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"storyreel/internal/config"
	"storyreel/internal/services"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the storyreel configuration",
	}
	cmd.AddCommand(newConfigValidateCommand(ctx), newConfigInitCommand())
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var target string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the sample configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := initTarget(target)
			if err != nil {
				return err
			}
			if !overwrite {
				_, statErr := os.Stat(path)
				switch {
				case statErr == nil:
					return fmt.Errorf("%s already exists; pass --overwrite to replace it", path)
				case !errors.Is(statErr, fs.ErrNotExist):
					return fmt.Errorf("check config path: %w", statErr)
				}
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", path)
			fmt.Fprintln(out, "Narration uses edge-tts and subtitles use whisperx by default; set openai.api_key to switch either to openai.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "path", "p", "", "Where to write the configuration (default ~/.config/storyreel/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")
	return cmd
}

func initTarget(flagValue string) (string, error) {
	if value := strings.TrimSpace(flagValue); value != "" {
		return config.ExpandPath(value)
	}
	return config.DefaultConfigPath()
}

// config validate loads the file itself so a broken config is reported
// instead of aborting in the root command.
func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and create its working directories",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "config", "load", resolved, err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			rep := newReport(cmd.OutOrStdout())
			rep.section("Configuration")
			if exists {
				rep.add("Config path", statePass, resolved)
			} else {
				rep.add("Config path", stateWarn, resolved+" (not found, using defaults)")
			}
			rep.add("Speech", stateInfo, speechSummary(cfg))
			rep.add("Transcription", stateInfo, cfg.Transcription.Provider)
			rep.add("Stories", stateInfo, cfg.Paths.StoriesDir)
			rep.add("Output", stateInfo, cfg.Paths.OutputDir)
			rep.add("History", stateInfo, cfg.HistoryPath())
			fmt.Fprintln(cmd.OutOrStdout(), rep.String())
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}
}
