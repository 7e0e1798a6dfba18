package frigate

import (
	"strings"
	"testing"
)

func TestValidateRequiresDetector(t *testing.T) {
	cfg := Default()
	cfg.Detectors = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure with no detectors")
	}
}

func TestValidateRequiresMqttHostWhenEnabled(t *testing.T) {
	cfg := Default()
	cfg.MQTT.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure for enabled mqtt without host")
	}
	cfg.MQTT.Host = "broker.local"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation failure: %v", err)
	}
}

func TestValidateRejectsDuplicateCameraNames(t *testing.T) {
	cfg := Default()
	cfg.Cameras = []Camera{DefaultCamera("front"), DefaultCamera("front")}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure for duplicate camera names")
	}
	if !strings.Contains(err.Error(), "front") {
		t.Fatalf("error should name the duplicate camera, got: %v", err)
	}
}

func TestNormalizeAppliesMqttDefaults(t *testing.T) {
	cfg := Default()
	cfg.MQTT = MqttConfig{Enabled: true, Host: "broker.local"}
	cfg.Version = ""
	cfg.Normalize()

	if cfg.MQTT.Port != DefaultMqttPort {
		t.Errorf("port = %d, want %d", cfg.MQTT.Port, DefaultMqttPort)
	}
	if cfg.MQTT.TopicPrefix != DefaultMqttTopicPrefix {
		t.Errorf("topic_prefix = %q, want %q", cfg.MQTT.TopicPrefix, DefaultMqttTopicPrefix)
	}
	if cfg.Version != SchemaVersion {
		t.Errorf("version = %q, want %q", cfg.Version, SchemaVersion)
	}
}

func TestNormalizeLeavesDisabledMqttAlone(t *testing.T) {
	cfg := Default()
	cfg.Normalize()
	if cfg.MQTT.Port != 0 || cfg.MQTT.TopicPrefix != "" {
		t.Fatalf("disabled mqtt should not gain defaults: %+v", cfg.MQTT)
	}
}

func TestUpsertCameraReplacesInPlace(t *testing.T) {
	cfg := Default()
	cfg.Cameras = []Camera{DefaultCamera("front"), DefaultCamera("back")}

	updated := DefaultCamera("front")
	updated.Detect.FPS = 5
	cfg.UpsertCamera(updated)

	if len(cfg.Cameras) != 2 {
		t.Fatalf("camera count = %d, want 2", len(cfg.Cameras))
	}
	if cfg.Cameras[0].Name != "front" || cfg.Cameras[0].Detect.FPS != 5 {
		t.Errorf("front camera not replaced in place: %+v", cfg.Cameras[0])
	}

	cfg.UpsertCamera(DefaultCamera("garage"))
	if got := cfg.Cameras[2].Name; got != "garage" {
		t.Errorf("new camera should append, got %q at index 2", got)
	}
}

func TestRemoveCamera(t *testing.T) {
	cfg := Default()
	cfg.Cameras = []Camera{DefaultCamera("front"), DefaultCamera("back")}

	if !cfg.RemoveCamera("front") {
		t.Fatal("RemoveCamera(front) = false, want true")
	}
	if cfg.RemoveCamera("front") {
		t.Fatal("second RemoveCamera(front) = true, want false")
	}
	if len(cfg.Cameras) != 1 || cfg.Cameras[0].Name != "back" {
		t.Errorf("remaining cameras = %+v", cfg.Cameras)
	}
}

func TestDefaultCameraSettings(t *testing.T) {
	cam := DefaultCamera("front")
	if cam.Detect.Width != 1920 || cam.Detect.Height != 1080 || cam.Detect.FPS != 20 {
		t.Errorf("detect defaults = %+v", cam.Detect)
	}
	if !cam.Detect.Enabled {
		t.Error("detect should default to enabled")
	}
	if got := cam.Objects.Track; len(got) != 3 || got[0] != "person" || got[1] != "car" || got[2] != "dog" {
		t.Errorf("tracked objects = %v", got)
	}
	if cam.Snapshots.Enabled || !cam.Snapshots.BoundingBox || cam.Snapshots.Retain.Default != 1 {
		t.Errorf("snapshot defaults = %+v", cam.Snapshots)
	}
	if cam.Record != nil {
		t.Error("record block should default to absent")
	}
}
