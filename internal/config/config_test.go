package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"frigatectl/internal/config"
)

func TestLoadDefaultsWhenFileAbsent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantRoot := filepath.Join(tempHome, ".local", "share", "frigatectl")
	if cfg.Paths.AppRoot != wantRoot {
		t.Fatalf("unexpected app root: got %q want %q", cfg.Paths.AppRoot, wantRoot)
	}
	if cfg.Container.Name != "frigate" {
		t.Fatalf("unexpected container name: %q", cfg.Container.Name)
	}
	if cfg.Repo.PinnedVersion != "0.17-0" {
		t.Fatalf("unexpected version pin: %q", cfg.Repo.PinnedVersion)
	}
	if cfg.Devices.GlobPattern != "/dev/memx*" {
		t.Fatalf("unexpected device glob: %q", cfg.Devices.GlobPattern)
	}
	if cfg.Status.PollInterval <= 0 {
		t.Fatalf("expected positive poll interval, got %d", cfg.Status.PollInterval)
	}

	wantConfig := filepath.Join(wantRoot, "frigate", "config", "config.yaml")
	if cfg.FrigateConfigPath() != wantConfig {
		t.Fatalf("unexpected frigate config path: %q", cfg.FrigateConfigPath())
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`app_root = "` + filepath.Join(dir, "root") + `"`,
		"[container]",
		`name = "frigate-test"`,
		"[status]",
		"poll_interval = 30",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected file at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Container.Name != "frigate-test" {
		t.Fatalf("override not applied: %q", cfg.Container.Name)
	}
	if cfg.Status.PollInterval != 30 {
		t.Fatalf("override not applied: %d", cfg.Status.PollInterval)
	}
	// Unset sections keep defaults.
	if cfg.Container.Image != "frigate-memryx:latest" {
		t.Fatalf("default lost: %q", cfg.Container.Image)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[container\nname="), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateRejectsBadPortMapping(t *testing.T) {
	cfg := config.Default()
	cfg.Container.Ports = []string{"5000"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for port mapping without colon")
	}
}

func TestValidateRejectsRelativeKeyringPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Packages.KeyringPath = "docker.gpg"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for relative keyring path")
	}

	cfg = config.Default()
	cfg.Packages.RepoListPath = "docker.list"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for relative repo list path")
	}

	cfg = config.Default()
	cfg.Packages.KeyringURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for empty keyring url")
	}
}

func TestValidateRejectsUnknownLogFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown log format")
	}
}

func TestCreateSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[container]") {
		t.Fatalf("sample missing container section: %q", string(data))
	}
}
