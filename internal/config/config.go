// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"cycenv-cli/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "cycenv"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "CYCENV"
)

// LoadOptions controls a single Load call.
type LoadOptions struct {
	// ConfigFilePath is an explicit config file (--config). When set, the
	// file must exist; there is no silent fallback to defaults.
	ConfigFilePath string
}

// ConfigDir returns the cycenv configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigFilePath returns the default config file location.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// Load reads configuration according to opts, layering: defaults, then the
// config file (explicit or default path), then CYCENV_* environment
// variables. A missing file at the default path yields defaults; a missing
// explicit file is an error.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	v.SetConfigType(ConfigFileExt)

	defaults := DefaultConfig()
	v.SetDefault("root_dir", defaults.RootDir)
	v.SetDefault("utc", defaults.UTC)
	v.SetDefault("empty_ok", defaults.EmptyOK)
	v.SetDefault("absolute_paths", defaults.AbsolutePaths)
	v.SetDefault("join", string(defaults.Join))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := opts.ConfigFilePath
	if path != "" {
		if !fileExists(path) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'cycenv config init' to create a default configuration").
				Wrap(os.ErrNotExist).
				Build()
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check the TOML syntax").
				Wrap(err).
				Build()
		}
	} else {
		defaultPath, err := ConfigFilePath()
		if err == nil && fileExists(defaultPath) {
			v.SetConfigFile(defaultPath)
			if readErr := v.ReadInConfig(); readErr != nil {
				// A file the user created and got wrong must not silently
				// degrade to defaults.
				return nil, issue.NewErrorContext().
					WithOperation("load configuration").
					WithResource(defaultPath).
					WithSuggestion("Check the TOML syntax").
					Wrap(readErr).
					Build()
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("decode configuration").
			WithResource(v.ConfigFileUsed()).
			Wrap(err).
			Build()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
