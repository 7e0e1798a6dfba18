package frigate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"frigatectl/internal/services"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "config", "config.yaml"))
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	cfg := Default()
	cfg.Cameras = []Camera{DefaultCamera("front")}
	if err := store.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := got.CameraByName("front"); !ok {
		t.Errorf("saved camera missing after load: %+v", got.Cameras)
	}
	if got.Version != SchemaVersion {
		t.Errorf("version = %q", got.Version)
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load()
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want not-found marker", err)
	}
	if store.Exists() {
		t.Error("Exists() = true for missing file")
	}
}

func TestStoreLoadEmptyFileReportsNotFound(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.Path(), []byte("# only comments\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := store.Load()
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want not-found marker", err)
	}
}

func TestStoreSaveRejectsInvalidConfig(t *testing.T) {
	store := newTestStore(t)
	cfg := Default()
	cfg.Cameras = []Camera{DefaultCamera("front"), DefaultCamera("front")}
	if err := store.Save(cfg); err == nil {
		t.Fatal("expected save failure for duplicate camera names")
	}
	if store.Exists() {
		t.Error("invalid save should not write the file")
	}
}

func TestStoreReplaceCamerasPreservesUnknownKeys(t *testing.T) {
	store := newTestStore(t)
	doc := `mqtt:
  enabled: false

detectors:
  memx0:
    type: memryx
    device: PCIe:0

go2rtc:
  streams:
    front: rtsp://example/stream

cameras:
  old:
    detect:
      width: 1280
      height: 720
      fps: 5
      enabled: true

version: 0.17-0
`
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.Path(), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	front := DefaultCamera("front")
	front.Ffmpeg.Inputs = []FfmpegInput{{Path: "rtsp://cam/stream", Roles: []string{"detect"}}}
	if err := store.ReplaceCameras([]Camera{front}); err != nil {
		t.Fatalf("ReplaceCameras: %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "go2rtc:") || !strings.Contains(text, "rtsp://example/stream") {
		t.Errorf("unmodeled go2rtc block lost:\n%s", text)
	}
	if strings.Contains(text, "old:") {
		t.Errorf("replaced camera still present:\n%s", text)
	}

	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load after replace: %v", err)
	}
	if len(cfg.Cameras) != 1 || cfg.Cameras[0].Name != "front" {
		t.Errorf("cameras = %+v", cfg.Cameras)
	}
	if cfg.Detectors[0].Device != "PCIe:0" {
		t.Errorf("detectors block altered: %+v", cfg.Detectors)
	}
}

func TestStoreReplaceCamerasWithoutDocument(t *testing.T) {
	store := newTestStore(t)
	err := store.ReplaceCameras([]Camera{DefaultCamera("front")})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want not-found marker", err)
	}
}

func TestStoreReplaceCamerasRejectsDuplicates(t *testing.T) {
	store := newTestStore(t)
	err := store.ReplaceCameras([]Camera{DefaultCamera("a"), DefaultCamera("a")})
	if err == nil {
		t.Fatal("expected failure for duplicate camera names")
	}
}

func TestStoreReplaceDetectorsPreservesCameras(t *testing.T) {
	store := newTestStore(t)
	cfg := Default()
	cfg.Cameras = []Camera{DefaultCamera("front")}
	if err := store.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.ReplaceDetectors(GenerateDetectors(3)); err != nil {
		t.Fatalf("ReplaceDetectors: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Detectors) != 3 {
		t.Fatalf("detectors = %d, want 3", len(got.Detectors))
	}
	if got.Detectors[2].Device != "PCIe:2" {
		t.Errorf("device = %q", got.Detectors[2].Device)
	}
	if _, ok := got.CameraByName("front"); !ok {
		t.Error("camera lost during detectors rewrite")
	}
}

func TestStoreReplaceDetectorsRequiresOne(t *testing.T) {
	store := newTestStore(t)
	if err := store.ReplaceDetectors(nil); err == nil {
		t.Fatal("expected failure for empty detector list")
	}
}

func TestStoreReplaceCamerasDetectsConcurrentWrite(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Another writer touches the document after this store loaded it.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(store.Path(), future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	err := store.ReplaceCameras([]Camera{DefaultCamera("front")})
	if !services.IsPrecondition(err) {
		t.Fatalf("err = %v, want precondition marker", err)
	}

	// Acknowledging the on-disk state clears the conflict.
	store.MarkSynced()
	if err := store.ReplaceCameras([]Camera{DefaultCamera("front")}); err != nil {
		t.Fatalf("ReplaceCameras after MarkSynced: %v", err)
	}
}

func TestStoreExternallyModified(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if store.ExternallyModified() {
		t.Fatal("fresh save should not report external modification")
	}

	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(store.Path(), future, future); err != nil {
		t.Fatal(err)
	}
	if !store.ExternallyModified() {
		t.Fatal("touched file should report external modification")
	}

	store.MarkSynced()
	if store.ExternallyModified() {
		t.Fatal("MarkSynced should clear the external-modification report")
	}
}

func TestStoreExternallyModifiedBeforeFirstLoad(t *testing.T) {
	store := newTestStore(t)
	if store.ExternallyModified() {
		t.Fatal("untouched store should not report external modification")
	}
}

func TestStoreWriteDefault(t *testing.T) {
	store := newTestStore(t)
	if err := store.WriteDefault(); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default document should validate: %v", err)
	}
}
