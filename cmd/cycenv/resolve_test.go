// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cycenv-cli/pkg/cyclepoint"
	"cycenv-cli/pkg/taskenv"
)

// writeFixture creates empty files under root, making parent directories.
func writeFixture(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("MkdirAll(%s) error = %v", full, err)
		}
		if err := os.WriteFile(full, nil, 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", full, err)
		}
	}
}

func TestRunResolve_ExportsSortedMatches(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFixture(t, root, "etc/my-path/b", "etc/my-path/a")

	var out strings.Builder
	err := runResolve(context.Background(), resolveSettings{
		Cycle:  "2013-01-01T12:00Z",
		Paths:  []string{"MY_PATH=etc/my-path/*"},
		UTC:    true,
		Root:   root,
		Join:   taskenv.JoinSpace,
		Export: true,
	}, &out)
	if err != nil {
		t.Fatalf("runResolve() error = %v", err)
	}

	want := "export MY_PATH='etc/my-path/a etc/my-path/b'\n"
	if got := out.String(); got != want {
		t.Errorf("runResolve() output = %q, want %q", got, want)
	}
}

func TestRunResolve_NoExportPrefix(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFixture(t, root, "etc/a")

	var out strings.Builder
	err := runResolve(context.Background(), resolveSettings{
		Cycle:  "2013-01-01T12:00Z",
		Paths:  []string{"ETC=etc/a"},
		UTC:    true,
		Root:   root,
		Join:   taskenv.JoinSpace,
		Export: false,
	}, &out)
	if err != nil {
		t.Fatalf("runResolve() error = %v", err)
	}

	if got := out.String(); got != "ETC=etc/a\n" {
		t.Errorf("runResolve() output = %q, want %q", got, "ETC=etc/a\n")
	}
}

func TestRunResolve_MissingCyclePoint(t *testing.T) {
	// Not parallel: depends on the process environment.
	t.Setenv(CyclePointEnvVar, "")

	err := runResolve(context.Background(), resolveSettings{
		Paths:  []string{"X=etc/*"},
		Join:   taskenv.JoinSpace,
		Export: true,
	}, &strings.Builder{})
	if !errors.Is(err, cyclepoint.ErrInvalidCyclePoint) {
		t.Fatalf("runResolve() error = %v, want ErrInvalidCyclePoint", err)
	}
}

func TestRunResolve_CyclePointFromEnvironment(t *testing.T) {
	// Not parallel: depends on the process environment.
	t.Setenv(CyclePointEnvVar, "2013-01-01T12:00Z")

	root := t.TempDir()
	writeFixture(t, root, "etc/a")

	var out strings.Builder
	err := runResolve(context.Background(), resolveSettings{
		Paths:  []string{"ETC=etc/*"},
		UTC:    true,
		Root:   root,
		Join:   taskenv.JoinSpace,
		Export: true,
	}, &out)
	if err != nil {
		t.Fatalf("runResolve() error = %v", err)
	}
	if !strings.Contains(out.String(), "ETC=") {
		t.Errorf("runResolve() output = %q, want ETC binding", out.String())
	}
}

func TestRunResolve_InvalidOffset(t *testing.T) {
	t.Parallel()

	err := runResolve(context.Background(), resolveSettings{
		Cycle:   "2013-01-01T12:00Z",
		Offsets: []string{"PT12X"},
		Paths:   []string{"X=etc/*"},
		UTC:     true,
		Join:    taskenv.JoinSpace,
		Export:  true,
	}, &strings.Builder{})
	if !errors.Is(err, cyclepoint.ErrInvalidDuration) {
		t.Fatalf("runResolve() error = %v, want ErrInvalidDuration", err)
	}
}

func TestRunResolve_NoPartialOutputOnFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFixture(t, root, "etc/a")

	var out strings.Builder
	err := runResolve(context.Background(), resolveSettings{
		Cycle:  "2013-01-01T12:00Z",
		Paths:  []string{"GOOD=etc/*", "BAD=missing/*"},
		UTC:    true,
		Root:   root,
		Join:   taskenv.JoinSpace,
		Export: true,
	}, &out)
	if !errors.Is(err, taskenv.ErrNoPathMatch) {
		t.Fatalf("runResolve() error = %v, want ErrNoPathMatch", err)
	}
	if out.String() != "" {
		t.Errorf("runResolve() wrote %q before failing; a failed resolution must export nothing", out.String())
	}
}

func TestRunResolve_InvalidJoinMode(t *testing.T) {
	t.Parallel()

	err := runResolve(context.Background(), resolveSettings{
		Cycle:  "2013-01-01T12:00Z",
		Paths:  []string{"X=etc/*"},
		Join:   taskenv.JoinMode("comma"),
		Export: true,
	}, &strings.Builder{})
	if !errors.Is(err, taskenv.ErrInvalidJoinMode) {
		t.Fatalf("runResolve() error = %v, want ErrInvalidJoinMode", err)
	}
}

func TestRunResolve_DuplicateVariable(t *testing.T) {
	t.Parallel()

	err := runResolve(context.Background(), resolveSettings{
		Cycle:  "2013-01-01T12:00Z",
		Paths:  []string{"X=etc/*", "X=share/*"},
		UTC:    true,
		Join:   taskenv.JoinSpace,
		Export: true,
	}, &strings.Builder{})
	if !errors.Is(err, taskenv.ErrDuplicateVariable) {
		t.Fatalf("runResolve() error = %v, want ErrDuplicateVariable", err)
	}
}
