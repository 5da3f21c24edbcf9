package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storyreel/internal/config"
	"storyreel/internal/deps"
	"storyreel/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check binaries, directories and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			rep := newReport(out)

			rep.section("Providers")
			rep.add("Config", stateInfo, ctx.configPath)
			rep.add("Speech", stateInfo, speechSummary(cfg))
			rep.add("Transcription", stateInfo, cfg.Transcription.Provider)

			rep.section("Dependencies")
			addDependencies(rep, preflight.CheckSystemDeps(cfg))

			results := preflight.RunAll(cmd.Context(), cfg)
			results = append(results, preflight.CheckHistory(cmd.Context(), cfg))
			rep.section("Checks")
			for _, result := range results {
				state := statePass
				if !result.Passed {
					state = stateFail
				}
				rep.add(result.Name, state, result.Detail)
			}

			fmt.Fprintln(out, rep.String())
			if rep.failures > 0 {
				return fmt.Errorf("%d check(s) failed", rep.failures)
			}
			return nil
		},
	}
}

func speechSummary(cfg *config.Config) string {
	voice := cfg.Speech.Voice
	if cfg.Speech.Provider == config.ProviderOpenAI {
		voice = cfg.Speech.OpenAIVoice
	}
	if voice == "" {
		return cfg.Speech.Provider
	}
	return fmt.Sprintf("%s (voice %s)", cfg.Speech.Provider, voice)
}

// addDependencies reports each binary; missing required ones fail the report.
func addDependencies(rep *report, statuses []deps.Status) {
	var missing []string
	for _, dep := range statuses {
		if dep.Available {
			rep.add(dep.Name, statePass, "found "+dep.Path)
			continue
		}
		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		state := stateFail
		if dep.Optional {
			state = stateWarn
		}
		rep.add(dep.Name, state, detail)
		missing = append(missing, dep.Command)
	}
	if len(missing) > 0 {
		rep.add("Missing dependencies", stateWarn, "install "+strings.Join(missing, ", ")+" or set their paths in the config")
	}
}
