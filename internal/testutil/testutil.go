// Package testutil provides shared test helpers for setting up working folders.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Workspace creates a temporary working folder and returns its canonical path,
// so paths compare equal to what the commands report (macOS temp dirs sit
// behind a /var → /private/var symlink).
func Workspace(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

// WriteNote writes content to dir/name and returns the full path.
func WriteNote(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// Touch sets the modification time of path to now minus age.
func Touch(t *testing.T, path string, age time.Duration) {
	t.Helper()
	ts := time.Now().Add(-age)
	if err := os.Chtimes(path, ts, ts); err != nil {
		t.Fatal(err)
	}
}

// Symlink creates link → target, skipping the test where symlinks are unavailable.
func Symlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
}
