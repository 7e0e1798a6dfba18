package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"frigatectl/internal/frigate"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("App directory", dir)
	if !result.Passed {
		t.Errorf("writable temp dir failed: %+v", result)
	}

	result = CheckDirectoryAccess("App directory", filepath.Join(dir, "missing"))
	if result.Passed || !strings.Contains(result.Detail, "does not exist") {
		t.Errorf("missing dir result = %+v", result)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	result = CheckDirectoryAccess("App directory", file)
	if result.Passed || !strings.Contains(result.Detail, "not a directory") {
		t.Errorf("file result = %+v", result)
	}
}

func TestCheckDiskSpace(t *testing.T) {
	dir := t.TempDir()
	result := CheckDiskSpace("Disk space", dir, 1)
	if !result.Passed {
		t.Errorf("one byte should be available: %+v", result)
	}

	result = CheckDiskSpace("Disk space", dir, 1<<62)
	if result.Passed {
		t.Errorf("4 EiB should not be available: %+v", result)
	}
	if !strings.Contains(result.Detail, "need") {
		t.Errorf("failure detail should state the requirement: %+v", result)
	}
}

func TestCheckConfigDocument(t *testing.T) {
	store := frigate.NewStore(filepath.Join(t.TempDir(), "config.yaml"))

	result := CheckConfigDocument(store)
	if result.Passed {
		t.Errorf("missing document passed: %+v", result)
	}

	if err := store.Save(frigate.Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	result = CheckConfigDocument(store)
	if !result.Passed {
		t.Errorf("valid document failed: %+v", result)
	}
}
