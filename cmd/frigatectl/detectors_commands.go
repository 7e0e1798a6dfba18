package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"frigatectl/internal/frigate"
)

func newDetectorsCommand(ctx *commandContext) *cobra.Command {
	detectorsCmd := &cobra.Command{
		Use:   "detectors",
		Short: "Manage detector entries in the Frigate configuration",
	}

	detectorsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured detectors and discovered devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configStore().Load()
			if err != nil {
				return err
			}
			count, err := ctx.scanner().Count()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(cfg.Detectors))
			for _, det := range cfg.Detectors {
				rows = append(rows, []string{det.Name, det.Type, det.Device})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Name", "Type", "Device"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "Devices on host: %d\n", count)
			if count != len(cfg.Detectors) {
				fmt.Fprintln(out, "Detector count differs from discovered devices; run `frigatectl detectors sync`")
			}
			return nil
		},
	})

	detectorsCmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Regenerate detectors from the devices present on the host",
		Long: `Sync rescans the accelerator device nodes and rewrites the detectors
section to match, one entry per device. Every other section of the document
is preserved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := ctx.scanner().Count()
			if err != nil {
				return fmt.Errorf("scan accelerator devices: %w", err)
			}

			store := ctx.configStore()
			detectors := frigate.GenerateDetectors(count)
			if err := store.ReplaceDetectors(detectors); err != nil {
				return err
			}
			store.MarkSynced()

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d detector(s) to %s\n", len(detectors), store.Path())
			return nil
		},
	})

	return detectorsCmd
}
