// SPDX-License-Identifier: MPL-2.0

// Package config loads cycenv configuration.
//
// Configuration lives in a TOML file at the platform config directory
// (Linux: $XDG_CONFIG_HOME/cycenv/config.toml) and can be overridden per
// invocation with --config. Every key has a default so a missing file is not
// an error; a file that exists but fails to parse or validate is. CYCENV_*
// environment variables override file values, which is also how the external
// scheduler's per-task execution context injects settings.
package config
