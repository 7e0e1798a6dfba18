package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"frigatectl/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run preflight checks against the host",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			results := preflight.RunAll(cmd.Context(), cfg, ctx.configStore(), ctx.dockerClient())

			out := cmd.OutOrStdout()
			colorize := writerIsTerminal(out)
			failed := 0
			for _, res := range results {
				kind := statusOK
				if !res.Passed {
					kind = statusError
					failed++
				}
				fmt.Fprintln(out, renderStatusLine(res.Name, kind, res.Detail, colorize))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			fmt.Fprintf(out, "\nAll %d checks passed\n", len(results))
			return nil
		},
	}
}
