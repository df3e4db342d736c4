// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWaitForMatch_ExistingPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "etc"), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "etc", "ready"), nil, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	matches, err := WaitForMatch(context.Background(), root, "etc/*", 2*time.Second)
	if err != nil {
		t.Fatalf("WaitForMatch() error = %v", err)
	}
	if len(matches) != 1 || matches[0] != filepath.FromSlash("etc/ready") {
		t.Errorf("WaitForMatch() = %v, want [etc/ready]", matches)
	}
}

func TestWaitForMatch_PathAppearsLater(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	go func() {
		time.Sleep(200 * time.Millisecond)
		_ = os.MkdirAll(filepath.Join(root, "share", "cycle"), 0o755)
		_ = os.WriteFile(filepath.Join(root, "share", "cycle", "out.nc"), nil, 0o644)
	}()

	matches, err := WaitForMatch(context.Background(), root, "share/**/out.nc", 5*time.Second)
	if err != nil {
		t.Fatalf("WaitForMatch() error = %v", err)
	}
	if len(matches) != 1 || matches[0] != filepath.FromSlash("share/cycle/out.nc") {
		t.Errorf("WaitForMatch() = %v, want [share/cycle/out.nc]", matches)
	}
}

func TestWaitForMatch_WindowCloses(t *testing.T) {
	t.Parallel()

	matches, err := WaitForMatch(context.Background(), t.TempDir(), "never/*", 150*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitForMatch() error = %v", err)
	}
	if matches != nil {
		t.Errorf("WaitForMatch() = %v, want nil on closed window", matches)
	}
}

func TestWaitForMatch_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	if _, err := WaitForMatch(ctx, t.TempDir(), "never/*", time.Minute); err == nil {
		t.Fatal("WaitForMatch() error = nil, want context cancellation")
	}
}

func TestWaitForMatch_MalformedPattern(t *testing.T) {
	t.Parallel()

	if _, err := WaitForMatch(context.Background(), t.TempDir(), "etc/[", time.Second); err == nil {
		t.Fatal("WaitForMatch() error = nil, want malformed pattern error")
	}
}
