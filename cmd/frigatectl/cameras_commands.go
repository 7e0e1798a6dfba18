package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"frigatectl/internal/frigate"
)

func newCamerasCommand(ctx *commandContext) *cobra.Command {
	camerasCmd := &cobra.Command{
		Use:   "cameras",
		Short: "Manage camera entries in the Frigate configuration",
	}

	camerasCmd.AddCommand(newCamerasListCommand(ctx))
	camerasCmd.AddCommand(newCamerasSetCommand(ctx))
	camerasCmd.AddCommand(newCamerasRemoveCommand(ctx))

	return camerasCmd
}

func newCamerasListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured cameras",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configStore().Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(cfg.Cameras) == 0 {
				fmt.Fprintln(out, "No cameras configured")
				return nil
			}

			rows := make([][]string, 0, len(cfg.Cameras))
			for _, cam := range cfg.Cameras {
				recording := "off"
				if cam.Record != nil && cam.Record.Enabled {
					recording = fmt.Sprintf("%dd", cam.Record.Alerts.Retain.Days)
				}
				rows = append(rows, []string{
					cam.Name,
					redactStreamURL(cam.StreamURL()),
					fmt.Sprintf("%dx%d@%d", cam.Detect.Width, cam.Detect.Height, cam.Detect.FPS),
					strings.Join(cam.Objects.Track, ","),
					recording,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Name", "Stream", "Detect", "Objects", "Recording"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newCamerasSetCommand(ctx *commandContext) *cobra.Command {
	var (
		streamURL  string
		user       string
		pass       string
		host       string
		width      int
		height     int
		fps        int
		track      []string
		snapshots  bool
		recordDays int
	)

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Add or update a camera entry",
		Long: `Set adds a camera, or replaces the entry with the same name. The stream
URL is either given directly with --url, or assembled from --user, --pass,
and --ip using the standard RTSP path; credentials are percent-encoded so
special characters survive the generated URL.

Only the cameras section of the document is rewritten; every other section,
including manual edits, is preserved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("camera name must not be empty")
			}

			url := strings.TrimSpace(streamURL)
			if url == "" {
				if host == "" {
					return fmt.Errorf("either --url or --ip is required")
				}
				url = frigate.BuildStreamURL(user, pass, host)
			}

			store := ctx.configStore()
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			cam := frigate.DefaultCamera(name)
			if existing, ok := cfg.CameraByName(name); ok {
				cam = existing
			}
			roles := []string{"detect"}
			if recordDays > 0 {
				roles = append(roles, "record")
				cam.Record = &frigate.RecordSettings{
					Enabled:    true,
					Alerts:     frigate.RecordRetain{Retain: frigate.RetainDays{Days: recordDays}},
					Detections: frigate.RecordRetain{Retain: frigate.RetainDays{Days: recordDays}},
				}
			}
			cam.Ffmpeg.Inputs = []frigate.FfmpegInput{{Path: url, Roles: roles}}
			if width > 0 {
				cam.Detect.Width = width
			}
			if height > 0 {
				cam.Detect.Height = height
			}
			if fps > 0 {
				cam.Detect.FPS = fps
			}
			if len(track) > 0 {
				cam.Objects.Track = track
			}
			cam.Snapshots.Enabled = snapshots

			cfg.UpsertCamera(cam)
			if err := store.ReplaceCameras(cfg.Cameras); err != nil {
				return err
			}
			store.MarkSynced()

			fmt.Fprintf(cmd.OutOrStdout(), "Saved camera %q (%d camera(s) configured)\n", name, len(cfg.Cameras))
			return nil
		},
	}

	cmd.Flags().StringVar(&streamURL, "url", "", "Full RTSP stream URL")
	cmd.Flags().StringVar(&user, "user", "", "Stream username (used with --ip)")
	cmd.Flags().StringVar(&pass, "pass", "", "Stream password (used with --ip)")
	cmd.Flags().StringVar(&host, "ip", "", "Camera host or IP (assembles the default RTSP URL)")
	cmd.Flags().IntVar(&width, "width", 0, "Detect resolution width")
	cmd.Flags().IntVar(&height, "height", 0, "Detect resolution height")
	cmd.Flags().IntVar(&fps, "fps", 0, "Detect frame rate")
	cmd.Flags().StringSliceVar(&track, "track", nil, "Object labels to track")
	cmd.Flags().BoolVar(&snapshots, "snapshots", false, "Enable snapshots for this camera")
	cmd.Flags().IntVar(&recordDays, "record-days", 0, "Enable recording with this retention in days")
	return cmd
}

func newCamerasRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a camera entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			store := ctx.configStore()
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			if !cfg.RemoveCamera(name) {
				return fmt.Errorf("no camera named %q", name)
			}
			if err := store.ReplaceCameras(cfg.Cameras); err != nil {
				return err
			}
			store.MarkSynced()
			fmt.Fprintf(cmd.OutOrStdout(), "Removed camera %q\n", name)
			return nil
		},
	}
}

// redactStreamURL masks the password component of an RTSP URL for display.
// The mask is spliced in literally; rebuilding through the URL encoder would
// percent-encode it.
func redactStreamURL(raw string) string {
	if raw == "" {
		return "-"
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, hasPassword := u.User.Password(); !hasPassword {
		return raw
	}
	u.User = url.User(u.User.Username())
	// The first "@" in the rendered URL ends the userinfo section; anything
	// '@'-like inside the username is percent-encoded by String.
	return strings.Replace(u.String(), "@", ":*****@", 1)
}
