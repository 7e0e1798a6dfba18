// Package logging wires log/slog for the CLI: console or JSON handlers,
// optional file outputs, and standardized attribute keys shared by the
// runner, poller, and device monitor.
package logging
