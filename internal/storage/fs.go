// Package storage provides a directory-rooted file store that refuses to
// resolve names outside its root.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrTooLarge is returned by WriteFrom when the source exceeds the given limit.
var ErrTooLarge = errors.New("storage: content exceeds size limit")

// Entry describes a regular file directly under the root.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// FS is a flat file store backed by the local file system.
type FS struct {
	root string // absolute path to the store directory
}

// Open returns a store rooted at root without touching the disk. Reads on a
// store whose root does not exist fail with errors wrapping os.ErrNotExist.
func Open(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	return &FS{root: abs}, nil
}

// Ensure creates the root directory if needed.
func (f *FS) Ensure() error {
	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return fmt.Errorf("storage: create root: %w", err)
	}
	info, err := os.Stat(f.root)
	if err != nil {
		return fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage: root is not a directory: %s", f.root)
	}
	return nil
}

// Path resolves name against the root and rejects anything that escapes it
// or names the root itself.
func (f *FS) Path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("storage: empty name")
	}
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) || filepath.VolumeName(cleaned) != "" {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", name)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes store root: %s", name)
	}
	return abs, nil
}

// Stat returns file info for name.
func (f *FS) Stat(name string) (os.FileInfo, error) {
	abs, err := f.Path(name)
	if err != nil {
		return nil, err
	}
	return os.Stat(abs)
}

// List returns every regular file directly under the root, newest first.
func (f *FS) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	out := make([]Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		if !d.Type().IsRegular() {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue // removed between ReadDir and Info
		}
		out = append(out, Entry{Name: d.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ModTime.After(out[j].ModTime) })
	return out, nil
}

// WriteFrom atomically stores the contents of r under name: tmp file → fsync → rename.
// If limit > 0 and r yields more than limit bytes, nothing is stored and
// ErrTooLarge is returned.
func (f *FS) WriteFrom(name string, r io.Reader, limit int64) (int64, error) {
	abs, err := f.Path(name)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(f.root, ".memopad-tmp-*")
	if err != nil {
		return 0, fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	n, err := io.Copy(tmp, src)
	if err != nil {
		return n, fmt.Errorf("storage: write temp: %w", err)
	}
	if limit > 0 && n > limit {
		return n, ErrTooLarge
	}
	if err := tmp.Sync(); err != nil {
		return n, fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return n, fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return n, nil
}

// Delete removes name from the store. The returned error wraps os.ErrNotExist
// when the file is absent.
func (f *FS) Delete(name string) error {
	abs, err := f.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}
