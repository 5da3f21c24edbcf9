package main

import (
	"github.com/spf13/cobra"
)

const (
	groupPipeline = "pipeline"
	groupInspect  = "inspect"
)

func newRootCommand() *cobra.Command {
	var configFlag, logLevelFlag string
	ctx := newCommandContext(&configFlag, &logLevelFlag)

	root := &cobra.Command{
		Use:           "storyreel",
		Short:         "Turn text stories into narrated, captioned short videos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	root.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override logging.level (debug, info, warn, error)")

	root.AddGroup(
		&cobra.Group{ID: groupPipeline, Title: "Pipeline:"},
		&cobra.Group{ID: groupInspect, Title: "Inspection:"},
	)
	for group, commands := range map[string][]*cobra.Command{
		groupPipeline: {newMakeCommand(ctx), newNarrateCommand(ctx), newSubtitlesCommand(ctx), newRenderCommand(ctx)},
		groupInspect:  {newStoriesCommand(ctx), newHistoryCommand(ctx), newDoctorCommand(ctx)},
	} {
		for _, cmd := range commands {
			cmd.GroupID = group
			root.AddCommand(cmd)
		}
	}
	root.AddCommand(newConfigCommand(ctx))
	return root
}
