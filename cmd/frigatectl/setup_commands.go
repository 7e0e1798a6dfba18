package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"frigatectl/internal/runner"
)

func newSetupCommand(ctx *commandContext) *cobra.Command {
	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Install host prerequisites and fetch the Frigate sources",
	}

	setupCmd.AddCommand(&cobra.Command{
		Use:   "deps",
		Short: "Check that the required host tools are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			op := ctx.opsBuilder().CheckDependencies()
			return runOperation(cmd.Context(), ctx, op, cmd.OutOrStdout())
		},
	})

	setupCmd.AddCommand(&cobra.Command{
		Use:   "clone",
		Short: "Clone the Frigate repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			op := ctx.opsBuilder().CloneRepo()
			return runOperation(cmd.Context(), ctx, op, cmd.OutOrStdout())
		},
	})

	setupCmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Update the Frigate checkout",
		RunE: func(cmd *cobra.Command, args []string) error {
			op := ctx.opsBuilder().UpdateRepo()
			return runOperation(cmd.Context(), ctx, op, cmd.OutOrStdout())
		},
	})

	setupCmd.AddCommand(&cobra.Command{
		Use:   "install-docker",
		Short: "Install the Docker engine packages (requires sudo)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := promptSudo()
			if err != nil {
				return err
			}
			op := ctx.opsBuilder().InstallDocker(cred)
			return runOperation(cmd.Context(), ctx, op, cmd.OutOrStdout())
		},
	})

	setupCmd.AddCommand(&cobra.Command{
		Use:   "install-driver",
		Short: "Install the MemryX driver packages (requires sudo)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := promptSudo()
			if err != nil {
				return err
			}
			op := ctx.opsBuilder().InstallDriver(cred)
			return runOperation(cmd.Context(), ctx, op, cmd.OutOrStdout())
		},
	})

	return setupCmd
}

// promptSudo reads the sudo password without echo. The credential lives only
// for the duration of one operation; the runner zeroes it on completion.
func promptSudo() (*runner.Credential, error) {
	cred, err := runner.PromptCredential("[sudo] password: ")
	if err != nil {
		return nil, fmt.Errorf("read sudo password: %w", err)
	}
	return cred, nil
}
