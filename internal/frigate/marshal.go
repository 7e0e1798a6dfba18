package frigate

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// Marshal serializes the configuration to YAML text. Top-level keys appear in
// the fixed order {mqtt, detectors, model, ffmpeg (if present), cameras,
// version}, nested mappings keep insertion order, and one blank line follows
// each top-level block. The function is pure; writing the result to disk is
// the caller's concern.
func Marshal(cfg *Config) (string, error) {
	doc := yaml.MapSlice{
		{Key: "mqtt", Value: mqttNode(cfg.MQTT)},
		{Key: "detectors", Value: detectorsNode(cfg.Detectors)},
		{Key: "model", Value: cfg.Model},
	}
	if cfg.Ffmpeg != nil {
		doc = append(doc, yaml.MapItem{Key: "ffmpeg", Value: *cfg.Ffmpeg})
	}
	doc = append(doc,
		yaml.MapItem{Key: "cameras", Value: camerasNode(cfg.Cameras)},
		yaml.MapItem{Key: "version", Value: versionString(cfg.Version)},
	)

	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return spaceTopLevelBlocks(string(data)), nil
}

// mqttNode drops host/port/topic entirely while the integration is disabled,
// even when values are held in memory.
func mqttNode(mqtt MqttConfig) any {
	if !mqtt.Enabled {
		return yaml.MapSlice{{Key: "enabled", Value: false}}
	}
	return mqtt
}

func detectorsNode(detectors []Detector) yaml.MapSlice {
	if len(detectors) == 0 {
		detectors = GenerateDetectors(0)
	}
	node := make(yaml.MapSlice, 0, len(detectors))
	for _, det := range detectors {
		node = append(node, yaml.MapItem{Key: det.Name, Value: det})
	}
	return node
}

func camerasNode(cameras []Camera) yaml.MapSlice {
	node := make(yaml.MapSlice, 0, len(cameras))
	for _, cam := range cameras {
		node = append(node, yaml.MapItem{Key: cam.Name, Value: cam})
	}
	return node
}

func versionString(version string) string {
	if strings.TrimSpace(version) == "" {
		return SchemaVersion
	}
	return version
}

// spaceTopLevelBlocks inserts a blank line before every top-level key after
// the first, reproducing the readable block spacing of the shipped documents.
func spaceTopLevelBlocks(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	out := make([]string, 0, len(lines)+8)
	for i, line := range lines {
		if i > 0 && isTopLevelKey(line) {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n") + "\n"
}

func isTopLevelKey(line string) bool {
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
		return false
	}
	return strings.Contains(line, ":")
}
