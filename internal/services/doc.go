// Package services defines shared utilities consumed by the operation
// builders and external tool clients.
//
// Key responsibilities:
//   - Context helpers that stamp operation identifiers and kinds for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (external tool, precondition, parse, configuration, timeout).
//   - The Command/Executor abstraction that makes subprocess execution and
//     line-by-line progress streaming from external tools testable.
//
// Use these helpers when wiring new operations so operational behaviour
// (error handling, observability) stays uniform across the tool.
package services
