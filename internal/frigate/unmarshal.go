package frigate

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"

	"frigatectl/internal/services"
)

// ErrEmptyDocument marks a document with no content (empty file or comments
// only). Callers treat it as "config not found" rather than as an empty
// configuration.
var ErrEmptyDocument = errors.New("empty configuration document")

// Unmarshal parses YAML text into a configuration seeded with defaults.
// Missing top-level keys keep their defaults; malformed YAML fails with a
// parse error and an empty document with ErrEmptyDocument.
func Unmarshal(data []byte) (*Config, error) {
	cfg := Default()
	if err := Apply(cfg, data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply is the lenient partial-update deserializer: top-level keys present in
// the document overwrite the corresponding fields of cfg, absent keys leave
// cfg untouched, and nothing is mutated when the text does not parse.
func Apply(cfg *Config, data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return services.Wrap(services.ErrParse, "frigate", "unmarshal", "malformed yaml", err)
	}
	if len(raw) == 0 {
		return ErrEmptyDocument
	}

	var doc struct {
		MQTT      *MqttConfig   `yaml:"mqtt"`
		Detectors yaml.MapSlice `yaml:"detectors"`
		Model     yaml.MapSlice `yaml:"model"`
		Ffmpeg    *FfmpegConfig `yaml:"ffmpeg"`
		Cameras   yaml.MapSlice `yaml:"cameras"`
		Version   *string       `yaml:"version"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return services.Wrap(services.ErrParse, "frigate", "unmarshal", "malformed yaml", err)
	}

	if doc.MQTT != nil {
		cfg.MQTT = *doc.MQTT
	}
	if _, present := raw["detectors"]; present {
		detectors, err := decodeDetectors(doc.Detectors)
		if err != nil {
			return services.Wrap(services.ErrParse, "frigate", "unmarshal", "detectors block", err)
		}
		cfg.Detectors = detectors
	}
	if len(doc.Model) > 0 {
		model := cfg.Model
		if err := decodeNode(doc.Model, &model); err != nil {
			return services.Wrap(services.ErrParse, "frigate", "unmarshal", "model block", err)
		}
		cfg.Model = model
	}
	if doc.Ffmpeg != nil {
		ffmpeg := *doc.Ffmpeg
		cfg.Ffmpeg = &ffmpeg
	}
	if _, present := raw["cameras"]; present {
		cameras, err := decodeCameras(doc.Cameras)
		if err != nil {
			return services.Wrap(services.ErrParse, "frigate", "unmarshal", "cameras block", err)
		}
		cfg.Cameras = cameras
	}
	if doc.Version != nil {
		cfg.Version = *doc.Version
	}
	return nil
}

func decodeDetectors(node yaml.MapSlice) ([]Detector, error) {
	detectors := make([]Detector, 0, len(node))
	for _, item := range node {
		det := Detector{Name: fmt.Sprint(item.Key), Type: DetectorType}
		if item.Value != nil {
			if err := decodeNode(item.Value, &det); err != nil {
				return nil, fmt.Errorf("detector %s: %w", det.Name, err)
			}
		}
		detectors = append(detectors, det)
	}
	return detectors, nil
}

func decodeCameras(node yaml.MapSlice) ([]Camera, error) {
	cameras := make([]Camera, 0, len(node))
	for _, item := range node {
		cam := DefaultCamera(fmt.Sprint(item.Key))
		if item.Value != nil {
			if err := decodeNode(item.Value, &cam); err != nil {
				return nil, fmt.Errorf("camera %s: %w", cam.Name, err)
			}
		}
		cameras = append(cameras, cam)
	}
	return cameras, nil
}

// decodeNode maps a decoded YAML value onto a typed target by re-marshaling
// it. Fields absent from the value keep whatever the target already holds,
// which is how per-camera defaults survive sparse documents.
func decodeNode(value any, target any) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, target)
}
