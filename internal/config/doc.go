// Package config loads, normalizes, and validates the TOML configuration
// for the podcast processing pipeline. Defaults live in defaults.go, env
// fallbacks and path expansion in normalize.go, and per-section checks in
// validate.go.
package config
