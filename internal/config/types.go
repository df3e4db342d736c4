// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"cycenv-cli/pkg/taskenv"
)

var (
	// ErrInvalidRootDir is returned when root_dir is whitespace-only.
	ErrInvalidRootDir = errors.New("invalid root dir")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Config is the resolved cycenv configuration.
	Config struct {
		// RootDir is the run root glob patterns expand against. Empty means
		// the invoking task's working directory.
		RootDir string `mapstructure:"root_dir"`

		// UTC interprets zone-less cycle points in UTC instead of local time.
		UTC bool `mapstructure:"utc"`

		// EmptyOK degrades NoPathMatch failures to empty-value bindings.
		EmptyOK bool `mapstructure:"empty_ok"`

		// AbsolutePaths joins the run root onto each resolved match.
		AbsolutePaths bool `mapstructure:"absolute_paths"`

		// Join is the multi-match join convention: "space" or "newline".
		Join taskenv.JoinMode `mapstructure:"join"`

		// UI holds presentation settings.
		UI UIConfig `mapstructure:"ui"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		// Verbose enables debug diagnostics on stderr.
		Verbose bool `mapstructure:"verbose"`
	}

	// InvalidRootDirError is returned when root_dir is set but
	// whitespace-only. It wraps ErrInvalidRootDir for errors.Is()
	// compatibility.
	InvalidRootDirError struct {
		Value string
	}

	// InvalidConfigError aggregates a validation failure with the offending
	// key. It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		Key   string
		Cause error
	}
)

// Error implements the error interface.
func (e *InvalidRootDirError) Error() string {
	return fmt.Sprintf("invalid root dir %q: must not be whitespace-only", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() checks.
func (e *InvalidRootDirError) Unwrap() error {
	return ErrInvalidRootDir
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config key %q: %v", e.Key, e.Cause)
}

// Unwrap returns the underlying cause so both ErrInvalidConfig and the
// cause's own sentinel survive errors.Is() checks.
func (e *InvalidConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error's sentinel.
func (e *InvalidConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.RootDir != "" && strings.TrimSpace(c.RootDir) == "" {
		return &InvalidConfigError{Key: "root_dir", Cause: &InvalidRootDirError{Value: c.RootDir}}
	}
	if err := c.Join.Validate(); err != nil {
		return &InvalidConfigError{Key: "join", Cause: err}
	}
	return nil
}

// DefaultConfig returns the built-in defaults: resolve against the working
// directory, local time, hard NoPathMatch failures, root-relative matches,
// space joining.
func DefaultConfig() *Config {
	return &Config{
		RootDir:       "",
		UTC:           false,
		EmptyOK:       false,
		AbsolutePaths: false,
		Join:          taskenv.JoinSpace,
		UI:            UIConfig{Verbose: false},
	}
}
