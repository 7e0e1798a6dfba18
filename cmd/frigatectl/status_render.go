package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"frigatectl/internal/status"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const (
	statusLabelWidth = 16
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := fmt.Sprintf("[%s]", statusKindLabel(kind))
	if message != "" {
		statusText += " " + message
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	default:
		return ""
	}
}

func writerIsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderSnapshot(snap status.Snapshot, colorize bool) string {
	var b strings.Builder

	kind, message := containerLine(snap)
	b.WriteString(renderStatusLine("Container", kind, message, colorize))
	b.WriteByte('\n')

	kind, message = devicesLine(snap)
	b.WriteString(renderStatusLine("Accelerators", kind, message, colorize))
	b.WriteByte('\n')

	kind, message = configLine(snap)
	b.WriteString(renderStatusLine("Configuration", kind, message, colorize))
	b.WriteByte('\n')

	if len(snap.MissingDeps) > 0 {
		b.WriteString(renderStatusLine("Tools", statusError,
			"missing "+strings.Join(snap.MissingDeps, ", "), colorize))
	} else {
		b.WriteString(renderStatusLine("Tools", statusOK, "all present", colorize))
	}
	b.WriteByte('\n')

	if snap.BrokerChecked {
		if snap.BrokerErr != nil {
			b.WriteString(renderStatusLine("MQTT broker", statusError, snap.BrokerErr.Error(), colorize))
		} else {
			b.WriteString(renderStatusLine("MQTT broker", statusOK, "reachable", colorize))
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func containerLine(snap status.Snapshot) (statusKind, string) {
	if snap.ContainerErr != nil {
		return statusError, snap.ContainerErr.Error()
	}
	if snap.Container.Running() {
		return statusOK, "running"
	}
	if snap.Container.Exists() {
		return statusWarn, string(snap.Container)
	}
	return statusWarn, "not created"
}

func devicesLine(snap status.Snapshot) (statusKind, string) {
	if snap.DevicesErr != nil {
		return statusError, snap.DevicesErr.Error()
	}
	if snap.DeviceCount == 0 {
		return statusWarn, "none detected"
	}
	return statusOK, fmt.Sprintf("%d detected", snap.DeviceCount)
}

func configLine(snap status.Snapshot) (statusKind, string) {
	switch {
	case snap.ConfigErr != nil:
		return statusError, snap.ConfigErr.Error()
	case !snap.ConfigPresent:
		return statusWarn, "not generated yet"
	case !snap.ConfigValid:
		return statusError, "invalid"
	default:
		return statusOK, "valid"
	}
}
