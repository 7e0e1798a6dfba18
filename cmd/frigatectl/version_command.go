package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"frigatectl/internal/frigate"
)

// cliVersion is set at build time via -ldflags.
var cliVersion = "dev"

func newVersionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show frigatectl and pinned Frigate versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "frigatectl %s\n", cliVersion)
			fmt.Fprintf(out, "Config schema: %s\n", frigate.SchemaVersion)

			markers := ctx.markers()
			if pinned, ok := markers.Version(); ok {
				fmt.Fprintf(out, "Frigate checkout: %s\n", pinned)
			} else {
				fmt.Fprintln(out, "Frigate checkout: not installed")
			}
			fmt.Fprintf(out, "Onboarded: %s\n", yesNo(markers.Onboarded()))
			return nil
		},
	}
}
