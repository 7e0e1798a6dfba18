// Package frigate models the generated Frigate configuration document
// (mqtt, detectors, model, ffmpeg, cameras, version) and converts it to and
// from YAML deterministically: top-level keys keep a fixed order, nested
// mappings keep insertion order, and each top-level block is followed by a
// blank line for readability.
//
// Deserialization is deliberately lenient. A hand-edited document with
// missing optional keys maps onto in-memory defaults; only malformed YAML is
// an error, and an empty or all-comments document is reported as "not found"
// rather than as an empty configuration.
package frigate
