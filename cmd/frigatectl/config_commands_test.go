package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(env.base, "custom", "config.toml")
	out, _, err := runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite refuses to clobber the file.
	_, _, err = runCLI(t, env, "config", "init", "--path", target)
	if err == nil {
		t.Fatal("expected error for existing config without --overwrite")
	}
	requireContains(t, err.Error(), "--overwrite")

	if _, _, err := runCLI(t, env, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigPathPrintsLocation(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	requireContains(t, out, filepath.Join(env.base, "app"))
	requireContains(t, out, "config.yaml")
}

func TestConfigValidateAfterGenerate(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addDevice(t, "memx0")

	if _, _, err := runCLI(t, env, "generate"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	out, _, err := runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "detectors: 1")
}

func TestConfigValidateWithoutDocumentFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "config", "validate")
	if err == nil {
		t.Fatal("expected error when no document was generated")
	}
}
