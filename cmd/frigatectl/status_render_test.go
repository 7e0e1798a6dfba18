package main

import (
	"errors"
	"strings"
	"testing"

	"frigatectl/internal/services/docker"
	"frigatectl/internal/status"
)

func TestRenderSnapshotHealthy(t *testing.T) {
	snap := status.Snapshot{
		Container:     docker.StateRunning,
		DeviceCount:   2,
		ConfigPresent: true,
		ConfigValid:   true,
	}

	out := renderSnapshot(snap, false)
	requireContains(t, out, "Container:")
	requireContains(t, out, "[OK] running")
	requireContains(t, out, "[OK] 2 detected")
	requireContains(t, out, "[OK] valid")
	requireContains(t, out, "[OK] all present")
	requireNotContains(t, out, "MQTT broker")
	requireNotContains(t, out, "\x1b[")
}

func TestRenderSnapshotDegraded(t *testing.T) {
	snap := status.Snapshot{
		Container:    docker.StateAbsent,
		ContainerErr: nil,
		DeviceCount:  0,
		MissingDeps:  []string{"docker", "git"},
	}

	out := renderSnapshot(snap, false)
	requireContains(t, out, "[WARN] not created")
	requireContains(t, out, "[WARN] none detected")
	requireContains(t, out, "[WARN] not generated yet")
	requireContains(t, out, "[ERROR] missing docker, git")
}

func TestRenderSnapshotProbeErrors(t *testing.T) {
	snap := status.Snapshot{
		ContainerErr:  errors.New("daemon unreachable"),
		DevicesErr:    errors.New("bad glob"),
		ConfigPresent: true,
		ConfigValid:   true,
		BrokerChecked: true,
		BrokerErr:     errors.New("connect timeout"),
	}

	out := renderSnapshot(snap, false)
	requireContains(t, out, "[ERROR] daemon unreachable")
	requireContains(t, out, "[ERROR] bad glob")
	requireContains(t, out, "MQTT broker")
	requireContains(t, out, "[ERROR] connect timeout")
}

func TestRenderSnapshotBrokerReachable(t *testing.T) {
	snap := status.Snapshot{
		Container:     docker.StateRunning,
		DeviceCount:   1,
		ConfigPresent: true,
		ConfigValid:   true,
		BrokerChecked: true,
	}

	out := renderSnapshot(snap, false)
	requireContains(t, out, "[OK] reachable")
}

func TestRenderStatusLineColorized(t *testing.T) {
	line := renderStatusLine("Container", statusOK, "running", true)
	if !strings.HasPrefix(line, ansiGreen) || !strings.HasSuffix(line, ansiReset) {
		t.Fatalf("expected green wrapped line, got %q", line)
	}

	plain := renderStatusLine("Container", statusOK, "running", false)
	requireNotContains(t, plain, "\x1b[")
}

func TestHotplugPrefix(t *testing.T) {
	cases := []struct {
		pattern string
		want    string
	}{
		{"/dev/memx*", "memx"},
		{"/dev/memx?", "memx"},
		{"/dev/accel[0-9]", "accel"},
		{"/dev/fixed", "fixed"},
	}
	for _, tc := range cases {
		if got := hotplugPrefix(tc.pattern); got != tc.want {
			t.Errorf("hotplugPrefix(%q) = %q, want %q", tc.pattern, got, tc.want)
		}
	}
}
