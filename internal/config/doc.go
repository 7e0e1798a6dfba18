// Package config loads and validates the frigatectl settings file
// (TOML, default ~/.config/frigatectl/config.toml) and derives the fixed
// filesystem layout under the application root: the Frigate checkout,
// the generated config.yaml, the version pin, and the onboarding marker.
package config
