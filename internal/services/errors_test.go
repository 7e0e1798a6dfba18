package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("exit status 1")
	err := Wrap(ErrExternalTool, "docker", "start", "container failed", base)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause to survive, got %v", err)
	}
	for _, fragment := range []string{"docker", "start", "container failed"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in message, got %q", fragment, err.Error())
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestIsPrecondition(t *testing.T) {
	err := Wrap(ErrPrecondition, "docker", "restart", "no container", nil)
	if !IsPrecondition(err) {
		t.Fatalf("expected precondition classification for %v", err)
	}
	if IsPrecondition(errors.New("other")) {
		t.Fatal("unrelated error misclassified as precondition")
	}
}

func TestIsParse(t *testing.T) {
	err := Wrap(ErrParse, "frigate", "unmarshal", "bad yaml", nil)
	if !IsParse(err) {
		t.Fatalf("expected parse classification for %v", err)
	}
}

func TestCommandDisplayHidesStdin(t *testing.T) {
	cmd := Command{Name: "sudo", Args: []string{"-S", "apt-get", "install"}, Stdin: "hunter2\n"}
	display := cmd.Display()
	if strings.Contains(display, "hunter2") {
		t.Fatalf("credential leaked into display: %q", display)
	}
	if display != "sudo -S apt-get install" {
		t.Fatalf("unexpected display: %q", display)
	}
}
