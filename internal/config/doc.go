// Package config loads, normalizes, and validates openconvert configuration.
//
// Configuration lives in a TOML file (default ~/.config/openconvert/config.toml)
// and covers the state/spool directories backing queue persistence and
// produced downloads, the remote converter endpoints, the page context used
// for default target selection, and log output settings. All path fields are
// expanded and absolute after Load returns.
package config
