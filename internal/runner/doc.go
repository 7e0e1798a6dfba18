// Package runner executes long-running maintenance operations as fail-fast
// step sequences on a background goroutine, streaming ordered progress to the
// caller and enforcing one operation at a time per host.
package runner
