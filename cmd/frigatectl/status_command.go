package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"frigatectl/internal/devices"
	"frigatectl/internal/status"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show container, device, and configuration health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			checker := status.NewChecker(cfg, ctx.dockerClient(), ctx.scanner(), ctx.configStore())
			out := cmd.OutOrStdout()
			colorize := writerIsTerminal(out)

			if !watch {
				snap := checker.Snapshot(cmd.Context())
				fmt.Fprint(out, renderSnapshot(snap, colorize))
				return nil
			}

			watchCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			interval := time.Duration(cfg.Status.PollInterval) * time.Second
			poller := status.NewPoller(checker, interval, ctx.newLogger(), func(snap status.Snapshot) {
				fmt.Fprintf(out, "--- %s\n", snap.TakenAt.Format(time.TimeOnly))
				fmt.Fprint(out, renderSnapshot(snap, colorize))
			})

			monitor := devices.NewMonitor(hotplugPrefix(cfg.Devices.GlobPattern),
				cfg.Devices.ExcludeSubstring, ctx.newLogger(), func(devices.HotplugEvent) {
					poller.Trigger(watchCtx)
				})
			if err := monitor.Start(watchCtx); err == nil {
				defer monitor.Stop()
			}

			if err := poller.Start(watchCtx); err != nil {
				return err
			}
			<-watchCtx.Done()
			poller.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep polling and refresh on device hotplug")
	return cmd
}

// hotplugPrefix reduces a device glob like /dev/memx* to the base-name prefix
// the udev monitor filters on.
func hotplugPrefix(pattern string) string {
	base := filepath.Base(pattern)
	if i := strings.IndexAny(base, "*?["); i >= 0 {
		base = base[:i]
	}
	return base
}
