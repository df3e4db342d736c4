// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cycenv-cli/pkg/taskenv"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)

	cfg, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := DefaultConfig()
	if cfg.RootDir != want.RootDir || cfg.UTC != want.UTC || cfg.Join != want.Join {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	content := "root_dir = \"/srv/suite/run\"\nutc = true\nempty_ok = true\njoin = \"newline\"\n\n[ui]\nverbose = true\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.RootDir != "/srv/suite/run" {
		t.Errorf("RootDir = %q, want /srv/suite/run", cfg.RootDir)
	}
	if !cfg.UTC || !cfg.EmptyOK || !cfg.UI.Verbose {
		t.Errorf("boolean keys not loaded: %+v", cfg)
	}
	if cfg.Join != taskenv.JoinNewline {
		t.Errorf("Join = %q, want newline", cfg.Join)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("utc = true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.UTC {
		t.Error("UTC = false, want true from explicit config file")
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "absent.toml")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load() error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("root_dir = [unclosed\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(LoadOptions{}); err == nil {
		t.Fatal("Load() error = nil, want TOML parse failure")
	}
}

func TestLoad_InvalidJoinMode(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("join = \"comma\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := Load(LoadOptions{})
	if !errors.Is(err, taskenv.ErrInvalidJoinMode) {
		t.Fatalf("Load() error = %v, want ErrInvalidJoinMode", err)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}

	cfg.RootDir = "   "
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidRootDir) {
		t.Errorf("Validate() error = %v, want ErrInvalidRootDir", err)
	}
}
