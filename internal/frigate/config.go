package frigate

import (
	"fmt"
	"strings"
)

// SchemaVersion is the fixed version literal written into every generated
// document.
const SchemaVersion = "0.17-0"

// MqttConfig is the mqtt block. Host, port, and topic prefix are omitted from
// the serialized document entirely while the integration is disabled.
type MqttConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Host        string `yaml:"host,omitempty"`
	Port        int    `yaml:"port,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
}

// DefaultMqttPort is applied when the integration is enabled without an
// explicit port.
const DefaultMqttPort = 1883

// DefaultMqttTopicPrefix is applied when the integration is enabled without
// an explicit topic prefix.
const DefaultMqttTopicPrefix = "frigate"

// Detector is one accelerator entry, keyed in the document by its name
// (memx0, memx1, ...).
type Detector struct {
	Name   string `yaml:"-"`
	Type   string `yaml:"type"`
	Device string `yaml:"device"`
}

// FfmpegConfig is the optional top-level ffmpeg block.
type FfmpegConfig struct {
	HwaccelArgs string `yaml:"hwaccel_args"`
}

// FfmpegPresets enumerates the accepted hardware-acceleration presets.
var FfmpegPresets = []string{
	"preset-rpi-64-h264",
	"preset-rpi-64-h265",
	"preset-vaapi",
	"preset-intel-qsv-h264",
	"preset-intel-qsv-h265",
	"preset-nvidia",
	"preset-jetson-h264",
	"preset-jetson-h265",
	"preset-rkmpp",
}

// ValidFfmpegPreset reports whether the preset is on the accepted list.
func ValidFfmpegPreset(preset string) bool {
	for _, p := range FfmpegPresets {
		if p == preset {
			return true
		}
	}
	return false
}

// FfmpegInput is a single camera stream with its roles.
type FfmpegInput struct {
	Path  string   `yaml:"path"`
	Roles []string `yaml:"roles"`
}

// CameraFfmpeg holds the per-camera input list.
type CameraFfmpeg struct {
	Inputs []FfmpegInput `yaml:"inputs"`
}

// DetectSettings is the per-camera detect block.
type DetectSettings struct {
	Width   int  `yaml:"width"`
	Height  int  `yaml:"height"`
	FPS     int  `yaml:"fps"`
	Enabled bool `yaml:"enabled"`
}

// ObjectsSettings lists the object labels tracked for a camera.
type ObjectsSettings struct {
	Track []string `yaml:"track"`
}

// SnapshotRetain holds snapshot retention in days.
type SnapshotRetain struct {
	Default int `yaml:"default"`
}

// SnapshotSettings is the per-camera snapshots block.
type SnapshotSettings struct {
	Enabled     bool           `yaml:"enabled"`
	BoundingBox bool           `yaml:"bounding_box"`
	Retain      SnapshotRetain `yaml:"retain"`
}

// RetainDays holds recording retention in days.
type RetainDays struct {
	Days int `yaml:"days"`
}

// RecordRetain wraps retention for one recording class.
type RecordRetain struct {
	Retain RetainDays `yaml:"retain"`
}

// RecordSettings is the per-camera record block. It is omitted from the
// document while recording is disabled and nothing else is configured.
type RecordSettings struct {
	Enabled    bool         `yaml:"enabled"`
	Alerts     RecordRetain `yaml:"alerts"`
	Detections RecordRetain `yaml:"detections"`
}

// Camera is one cameras entry, keyed in the document by its name.
type Camera struct {
	Name      string           `yaml:"-"`
	Ffmpeg    CameraFfmpeg     `yaml:"ffmpeg"`
	Detect    DetectSettings   `yaml:"detect"`
	Objects   ObjectsSettings  `yaml:"objects"`
	Snapshots SnapshotSettings `yaml:"snapshots"`
	Record    *RecordSettings  `yaml:"record,omitempty"`
}

// StreamURL returns the camera's primary input path, or "" when none is set.
func (c Camera) StreamURL() string {
	if len(c.Ffmpeg.Inputs) == 0 {
		return ""
	}
	return c.Ffmpeg.Inputs[0].Path
}

// Roles returns the camera's primary input roles.
func (c Camera) Roles() []string {
	if len(c.Ffmpeg.Inputs) == 0 {
		return nil
	}
	return c.Ffmpeg.Inputs[0].Roles
}

// Config is the complete in-memory configuration serialized to the single
// YAML document. Detector and camera slices are insertion-order-significant.
type Config struct {
	MQTT      MqttConfig
	Detectors []Detector
	Model     ModelConfig
	Ffmpeg    *FfmpegConfig
	Cameras   []Camera
	Version   string
}

// Validate checks the invariants required at save time: at least one
// detector, unique non-empty camera names, a host when MQTT is enabled, and
// model settings consistent with the allow-list or custom-path mode.
func (c *Config) Validate() error {
	if len(c.Detectors) == 0 {
		return fmt.Errorf("at least one detector is required")
	}
	if c.MQTT.Enabled && strings.TrimSpace(c.MQTT.Host) == "" {
		return fmt.Errorf("mqtt host must be set while mqtt is enabled")
	}
	seen := make(map[string]struct{}, len(c.Cameras))
	for _, cam := range c.Cameras {
		name := strings.TrimSpace(cam.Name)
		if name == "" {
			return fmt.Errorf("camera name must not be empty")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate camera name %q", name)
		}
		seen[name] = struct{}{}
	}
	return c.Model.Validate()
}

// Normalize applies the save-time defaulting rules in place: the schema
// version literal, the MQTT port and topic prefix while enabled, and the
// model resolution fallback.
func (c *Config) Normalize() {
	if strings.TrimSpace(c.Version) == "" {
		c.Version = SchemaVersion
	}
	if c.MQTT.Enabled {
		if c.MQTT.Port == 0 {
			c.MQTT.Port = DefaultMqttPort
		}
		if strings.TrimSpace(c.MQTT.TopicPrefix) == "" {
			c.MQTT.TopicPrefix = DefaultMqttTopicPrefix
		}
	}
	c.Model.Normalize()
}

// CameraByName returns the camera with the given name, if present.
func (c *Config) CameraByName(name string) (Camera, bool) {
	for _, cam := range c.Cameras {
		if cam.Name == name {
			return cam, true
		}
	}
	return Camera{}, false
}

// UpsertCamera replaces the camera with the same name or appends it,
// preserving insertion order for existing entries.
func (c *Config) UpsertCamera(cam Camera) {
	for i := range c.Cameras {
		if c.Cameras[i].Name == cam.Name {
			c.Cameras[i] = cam
			return
		}
	}
	c.Cameras = append(c.Cameras, cam)
}

// RemoveCamera deletes the named camera and reports whether it was present.
func (c *Config) RemoveCamera(name string) bool {
	for i := range c.Cameras {
		if c.Cameras[i].Name == name {
			c.Cameras = append(c.Cameras[:i], c.Cameras[i+1:]...)
			return true
		}
	}
	return false
}
