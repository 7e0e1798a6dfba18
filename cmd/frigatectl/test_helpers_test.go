package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	base       string
	configPath string
	deviceDir  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	deviceDir := filepath.Join(base, "dev")
	if err := os.MkdirAll(deviceDir, 0o755); err != nil {
		t.Fatalf("mkdir device dir: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(
		"[paths]\napp_root = %q\nlog_dir = %q\n\n[devices]\nglob_pattern = %q\nexclude_substring = \"_feature\"\n",
		filepath.Join(base, "app"),
		filepath.Join(base, "logs"),
		filepath.Join(deviceDir, "memx*"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{base: base, configPath: configPath, deviceDir: deviceDir}
}

func (e *cliTestEnv) addDevice(t *testing.T, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(e.deviceDir, name), nil, 0o644); err != nil {
		t.Fatalf("create device node %s: %v", name, err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q to not contain %q", output, substr)
	}
}
