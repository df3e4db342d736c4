// SPDX-License-Identifier: MPL-2.0

// Package watch provides a single-shot filesystem wait: block until a glob
// pattern matches something under a root directory, or the wait window
// closes. The resolver uses it so a task can start as soon as an upstream
// cycle's output appears instead of failing on the first look.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// WaitForMatch blocks until pattern matches at least one path under root,
// the window elapses, or ctx is cancelled. It returns the matches found in
// filepath form relative to root; a nil slice with a nil error means the
// window closed without a match. The pattern must already be concrete
// (placeholders rendered).
func WaitForMatch(ctx context.Context, root, pattern string, window time.Duration) ([]string, error) {
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, fmt.Errorf("watch: malformed glob pattern %q", pattern)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	defer fsw.Close() //nolint:errcheck // best-effort cleanup

	if err := addDirectories(fsw, absRoot); err != nil {
		return nil, err
	}

	// Check again after the watcher is armed: the path may have appeared
	// between the caller's failed expansion and watcher setup.
	if matches := glob(absRoot, pattern); len(matches) > 0 {
		return matches, nil
	}

	timer := time.NewTimer(window)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timer.C:
			return nil, nil

		case evt, ok := <-fsw.Events:
			if !ok {
				return nil, fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			// Extend the watch to directories created after startup so
			// matches nested under fresh cycle directories are seen.
			if evt.Has(fsnotify.Create) {
				maybeAddDir(fsw, evt.Name)
			}
			if matches := glob(absRoot, pattern); len(matches) > 0 {
				return matches, nil
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil, fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			return nil, fmt.Errorf("watch: fsnotify error: %w", err)
		}
	}
}

// glob expands pattern under root, returning filepath-form matches.
func glob(root, pattern string) []string {
	matches, err := doublestar.Glob(os.DirFS(root), filepath.ToSlash(pattern))
	if err != nil {
		return nil
	}
	for i, m := range matches {
		matches[i] = filepath.FromSlash(m)
	}
	return matches
}

// addDirectories registers root and every directory beneath it. A root that
// does not exist yet is not an error: its parent is watched instead so the
// wait resolves once the root (and the matching path) appear.
func addDirectories(fsw *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return addNearestParent(fsw, root)
		}
		return fmt.Errorf("watch: stat root: %w", err)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees cannot produce visible matches anyway.
			return nil //nolint:nilerr // skip, do not abort the walk
		}
		if d.IsDir() {
			if err := fsw.Add(path); err != nil {
				return fmt.Errorf("watch: add %s: %w", path, err)
			}
		}
		return nil
	})
}

// addNearestParent walks up from dir until an existing directory is found and
// watches that, so creation of the missing chain is observed.
func addNearestParent(fsw *fsnotify.Watcher, dir string) error {
	for {
		parent := filepath.Dir(dir)
		if _, err := os.Stat(parent); err == nil {
			if err := fsw.Add(parent); err != nil {
				return fmt.Errorf("watch: add %s: %w", parent, err)
			}
			return nil
		}
		if parent == dir {
			return fmt.Errorf("watch: no existing ancestor for %s", dir)
		}
		dir = parent
	}
}

// maybeAddDir watches path if it is a directory, ignoring races where it
// disappears before the watch is added.
func maybeAddDir(fsw *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	_ = fsw.Add(path) //nolint:errcheck // best-effort; the path may vanish
}
