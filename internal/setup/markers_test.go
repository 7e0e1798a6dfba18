package setup

import (
	"path/filepath"
	"testing"
)

func TestVersionMarker(t *testing.T) {
	dir := t.TempDir()
	markers := NewMarkers(filepath.Join(dir, "version"), filepath.Join(dir, ".onboarded"))

	if _, ok := markers.Version(); ok {
		t.Fatal("version reported before writing")
	}
	if err := markers.WriteVersion(" 0.17-0 "); err != nil {
		t.Fatalf("WriteVersion: %v", err)
	}
	version, ok := markers.Version()
	if !ok || version != "0.17-0" {
		t.Errorf("version = %q, %v", version, ok)
	}
}

func TestOnboardMarker(t *testing.T) {
	dir := t.TempDir()
	markers := NewMarkers(filepath.Join(dir, "version"), filepath.Join(dir, "nested", ".onboarded"))

	if markers.Onboarded() {
		t.Fatal("onboarded before marking")
	}
	if err := markers.MarkOnboarded(); err != nil {
		t.Fatalf("MarkOnboarded: %v", err)
	}
	if !markers.Onboarded() {
		t.Error("marker not detected after MarkOnboarded")
	}
}
