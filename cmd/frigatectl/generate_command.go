package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"frigatectl/internal/frigate"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		modelType   string
		width       int
		height      int
		modelPath   string
		mqttHost    string
		mqttPort    int
		topicPrefix string
		preset      string
		skeleton    bool
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the Frigate configuration from discovered hardware",
		Long: `Generate writes the Frigate YAML configuration: one detector per
discovered MemryX accelerator, the selected detection model, and optional
MQTT and ffmpeg hardware-acceleration blocks. Cameras are added afterwards
with "frigatectl cameras set".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := ctx.configStore()
			out := cmd.OutOrStdout()

			if store.Exists() && !force {
				return fmt.Errorf("configuration already exists at %s (use --force to regenerate)", store.Path())
			}

			if skeleton {
				if err := store.WriteDefault(); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote skeleton configuration to %s\n", store.Path())
				return ctx.markers().MarkOnboarded()
			}

			count, err := ctx.scanner().Count()
			if err != nil {
				return fmt.Errorf("scan accelerator devices: %w", err)
			}
			if count == 0 {
				fmt.Fprintln(out, "No accelerator devices detected; generating a single default detector")
			} else {
				fmt.Fprintf(out, "Detected %d accelerator device(s)\n", count)
			}

			cfg := frigate.Default()
			cfg.Detectors = frigate.GenerateDetectors(count)
			cfg.Model = frigate.DefaultModel(frigate.ModelType(modelType))
			if modelPath != "" {
				cfg.Model.Path = modelPath
			}
			if width > 0 {
				cfg.Model.Width = width
			}
			if height > 0 {
				cfg.Model.Height = height
			}
			if mqttHost != "" {
				cfg.MQTT = frigate.MqttConfig{
					Enabled:     true,
					Host:        mqttHost,
					Port:        mqttPort,
					TopicPrefix: topicPrefix,
				}
			}
			if preset != "" {
				if !frigate.ValidFfmpegPreset(preset) {
					return fmt.Errorf("unknown ffmpeg preset %q (valid: %s)",
						preset, strings.Join(frigate.FfmpegPresets, ", "))
				}
				cfg.Ffmpeg = &frigate.FfmpegConfig{HwaccelArgs: preset}
			}

			if err := store.Save(cfg); err != nil {
				return err
			}
			if err := ctx.markers().MarkOnboarded(); err != nil {
				return err
			}

			fmt.Fprintf(out, "Wrote configuration to %s\n", store.Path())
			fmt.Fprintf(out, "Model: %s %dx%d, detectors: %d\n",
				cfg.Model.ModelType, cfg.Model.Width, cfg.Model.Height, len(cfg.Detectors))
			return nil
		},
	}

	cmd.Flags().StringVar(&modelType, "model-type", string(frigate.ModelYoloGeneric),
		"Detection model type (yolo-generic, yolonas, yolox, ssd)")
	cmd.Flags().IntVar(&width, "width", 0, "Model input width (defaults per model type)")
	cmd.Flags().IntVar(&height, "height", 0, "Model input height (defaults per model type)")
	cmd.Flags().StringVar(&modelPath, "model-path", "", "Local model path (enables custom-model mode)")
	cmd.Flags().StringVar(&mqttHost, "mqtt-host", "", "MQTT broker host (enables the MQTT integration)")
	cmd.Flags().IntVar(&mqttPort, "mqtt-port", frigate.DefaultMqttPort, "MQTT broker port")
	cmd.Flags().StringVar(&topicPrefix, "mqtt-topic-prefix", frigate.DefaultMqttTopicPrefix, "MQTT topic prefix")
	cmd.Flags().StringVar(&preset, "ffmpeg-preset", "", "ffmpeg hardware acceleration preset")
	cmd.Flags().BoolVar(&skeleton, "skeleton", false, "Write the commented skeleton document instead of generating")
	cmd.Flags().BoolVar(&force, "force", false, "Regenerate even if a configuration already exists")
	return cmd
}
