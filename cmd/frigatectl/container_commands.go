package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"frigatectl/internal/ops"
)

func newContainerCommands(ctx *commandContext) []*cobra.Command {
	specs := []struct {
		kind  string
		short string
	}{
		{ops.OpStart, "Start the Frigate container"},
		{ops.OpStop, "Stop the Frigate container"},
		{ops.OpRestart, "Restart the Frigate container"},
		{ops.OpRebuild, "Rebuild the Frigate image and recreate the container"},
		{ops.OpRemove, "Remove the Frigate container"},
	}

	commands := make([]*cobra.Command, 0, len(specs))
	for _, spec := range specs {
		kind := spec.kind
		commands = append(commands, &cobra.Command{
			Use:   kind,
			Short: spec.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				op, ok := buildOperation(ctx.opsBuilder(), kind)
				if !ok {
					return fmt.Errorf("unknown operation %q", kind)
				}
				return runOperation(cmd.Context(), ctx, op, cmd.OutOrStdout())
			},
		})
	}
	return commands
}

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var tail int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show Frigate container logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()
			return ctx.dockerClient().Logs(cmd.Context(), cfg.Container.Name, follow, tail, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Stream new log lines")
	cmd.Flags().IntVar(&tail, "tail", 100, "Number of trailing lines to show")
	return cmd
}
