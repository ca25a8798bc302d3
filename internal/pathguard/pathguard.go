// Package pathguard decides whether untrusted file names and paths are safe to touch.
//
// Checks come in two layers. IsSafeFilename looks only at the shape of a name;
// IsWithinFolder resolves symlinks and relative segments on disk. A name can pass
// the first and still escape through a symlink, so callers need both.
package pathguard

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/memopad/internal/apperr"
)

// MarkdownExt is the note file extension, without the dot.
const MarkdownExt = "md"

// IsMarkdownFile reports whether path has an .md extension (any case).
func IsMarkdownFile(path string) bool {
	return strings.EqualFold(strings.TrimPrefix(filepath.Ext(path), "."), MarkdownExt)
}

// IsSafeFilename reports whether the trimmed name can be used as a bare file
// name inside a folder. The empty name is safe; callers substitute a default.
func IsSafeFilename(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return true
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return false
	}
	return !filepath.IsAbs(name) && filepath.VolumeName(name) == ""
}

// Canonical returns the absolute, symlink-free form of path. The path must exist.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// IsWithinFolder reports whether target, once canonicalized, is folder itself or
// lies beneath it. Containment is decided per path segment, so /ws2 is not
// inside /ws. A blank folder, or one that cannot be resolved, yields invalid_folder; a target
// that cannot be resolved yields io_error.
func IsWithinFolder(folder, target string) (bool, error) {
	if strings.TrimSpace(folder) == "" {
		return false, apperr.InvalidFolder(folder)
	}
	root, err := Canonical(folder)
	if err != nil {
		return false, apperr.InvalidFolder(folder)
	}
	resolved, err := Canonical(target)
	if err != nil {
		return false, apperr.IO(err)
	}
	return contains(root, resolved), nil
}

func contains(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
