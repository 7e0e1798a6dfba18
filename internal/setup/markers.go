// Package setup tracks installation markers under the application root: the
// pinned stack version and whether first-run onboarding completed.
package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Markers reads and writes the installation marker files.
type Markers struct {
	versionPath string
	onboardPath string
}

// NewMarkers creates markers at the given file paths.
func NewMarkers(versionPath, onboardPath string) *Markers {
	return &Markers{versionPath: versionPath, onboardPath: onboardPath}
}

// WriteVersion pins the installed stack version.
func (m *Markers) WriteVersion(version string) error {
	return writeMarker(m.versionPath, strings.TrimSpace(version)+"\n")
}

// Version returns the pinned version and whether one is recorded.
func (m *Markers) Version() (string, bool) {
	data, err := os.ReadFile(m.versionPath)
	if err != nil {
		return "", false
	}
	version := strings.TrimSpace(string(data))
	return version, version != ""
}

// MarkOnboarded records that first-run onboarding completed.
func (m *Markers) MarkOnboarded() error {
	return writeMarker(m.onboardPath, "")
}

// Onboarded reports whether first-run onboarding completed.
func (m *Markers) Onboarded() bool {
	_, err := os.Stat(m.onboardPath)
	return err == nil
}

func writeMarker(path, content string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create marker directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write marker %q: %w", path, err)
	}
	return nil
}
