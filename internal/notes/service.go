// Package notes implements the note commands: every operation validates its
// untrusted path arguments before touching the filesystem.
package notes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/memopad/internal/apperr"
	"github.com/starford/memopad/internal/dialog"
	"github.com/starford/memopad/internal/filemeta"
	"github.com/starford/memopad/internal/models"
	"github.com/starford/memopad/internal/pathguard"
)

// DefaultBaseName is used by Create when the requested name is blank.
const DefaultBaseName = "untitled"

// maxSuffix bounds the "-N" suffix search in Create.
const maxSuffix = 10000

// Service runs note commands. It holds no state besides the folder picker.
type Service struct {
	picker dialog.Picker
}

// NewService creates a note service. picker may be nil when folder selection is unavailable.
func NewService(picker dialog.Picker) *Service {
	if picker == nil {
		picker = dialog.Disabled{}
	}
	return &Service{picker: picker}
}

// SelectFolder opens the native folder picker. ok is false when the user cancels.
func (s *Service) SelectFolder(ctx context.Context) (path string, ok bool, err error) {
	return s.picker.PickFolder(ctx)
}

// List returns metadata for every markdown file directly inside folder, most
// recently modified first. Entries resolving outside folder are skipped.
func (s *Service) List(_ context.Context, folder string) ([]models.NoteMetadata, error) {
	dir, err := openFolder(folder)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperr.IO(err)
	}

	out := make([]models.NoteMetadata, 0, len(entries))
	for _, e := range entries {
		if !pathguard.IsMarkdownFile(e.Name()) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if e.Type()&fs.ModeSymlink != 0 {
			if inside, err := pathguard.IsWithinFolder(dir, p); err != nil || !inside {
				continue
			}
		}
		out = append(out, metadata(p))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ModifiedAt > out[j].ModifiedAt })
	return out, nil
}

// Read returns the note at path together with its content.
func (s *Service) Read(_ context.Context, path, workingFolder string) (*models.NoteFile, error) {
	abs, err := guard(path, workingFolder)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, apperr.IO(err)
	}
	return &models.NoteFile{NoteMetadata: metadata(abs), Content: string(data)}, nil
}

// Save overwrites an existing note in place. It never creates files.
func (s *Service) Save(_ context.Context, path, content, workingFolder string) (*models.NoteMetadata, error) {
	abs, err := guard(path, workingFolder)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		return nil, apperr.IO(err)
	}
	meta := metadata(abs)
	return &meta, nil
}

// Create makes a new empty note in folder. A taken name is retried as
// "<name>-1.md", "<name>-2.md" and so on; existing files are never overwritten.
func (s *Service) Create(_ context.Context, folder, fileName string) (*models.NoteMetadata, error) {
	dir, err := openFolder(folder)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(fileName)
	if !pathguard.IsSafeFilename(name) {
		return nil, apperr.InvalidFileName(fmt.Sprintf("%q", fileName))
	}
	base := stem(name)
	if base == "" {
		base = DefaultBaseName
	}

	for i := 0; i < maxSuffix; i++ {
		candidate := base + "." + pathguard.MarkdownExt
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d.%s", base, i, pathguard.MarkdownExt)
		}
		p := filepath.Join(dir, candidate)
		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, apperr.IO(err)
		}
		if err := f.Close(); err != nil {
			return nil, apperr.IO(err)
		}
		meta := metadata(p)
		return &meta, nil
	}
	return nil, apperr.InvalidFileName(fmt.Sprintf("no free name for %q", base))
}

// Delete removes the note at path.
func (s *Service) Delete(_ context.Context, path, workingFolder string) error {
	abs, err := guard(path, workingFolder)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return apperr.IO(err)
	}
	return nil
}

// Rename moves the note at path to "<newName>.md" in the same directory.
func (s *Service) Rename(_ context.Context, path, newName, workingFolder string) (*models.NoteMetadata, error) {
	abs, err := guard(path, workingFolder)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(newName)
	if !pathguard.IsSafeFilename(name) {
		return nil, apperr.InvalidFileName(fmt.Sprintf("%q", newName))
	}
	base := stem(name)
	if base == "" {
		return nil, apperr.InvalidFileName("name cannot be empty")
	}

	dest := filepath.Join(filepath.Dir(abs), base+"."+pathguard.MarkdownExt)
	if dest == abs {
		meta := metadata(abs)
		return &meta, nil
	}
	destInfo, err := os.Lstat(dest)
	switch {
	case err == nil:
		if !caseOnlyRename(abs, dest, destInfo) {
			return nil, apperr.InvalidFileName(fmt.Sprintf("%s already exists", filepath.Base(dest)))
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, apperr.IO(err)
	}

	if err := os.Rename(abs, dest); err != nil {
		return nil, apperr.IO(err)
	}
	meta := metadata(dest)
	return &meta, nil
}

// guard runs the shared checks for commands on an existing note, in order:
// markdown extension, existence as a regular file, containment in workingFolder.
// It returns the cleaned absolute path that was validated; callers must use it
// instead of the raw input so the OS resolves exactly what was checked.
func guard(path, workingFolder string) (string, error) {
	if !pathguard.IsMarkdownFile(path) {
		return "", apperr.NotMarkdownFile(path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", apperr.IO(err)
	}
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", apperr.FileNotFound(path)
	}
	if err != nil {
		return "", apperr.IO(err)
	}
	if !info.Mode().IsRegular() {
		return "", apperr.FileNotFound(path)
	}
	inside, err := pathguard.IsWithinFolder(workingFolder, abs)
	if err != nil {
		return "", err
	}
	if !inside {
		return "", apperr.AccessDenied(path)
	}
	return abs, nil
}

func openFolder(folder string) (string, error) {
	if strings.TrimSpace(folder) == "" {
		return "", apperr.InvalidFolder(folder)
	}
	abs, err := filepath.Abs(folder)
	if err != nil {
		return "", apperr.InvalidFolder(folder)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", apperr.InvalidFolder(folder)
	}
	return abs, nil
}

// stem drops a trailing ".md" the user may have typed.
func stem(name string) string {
	if pathguard.IsMarkdownFile(name) {
		return strings.TrimSpace(name[:len(name)-len(pathguard.MarkdownExt)-1])
	}
	return name
}

// caseOnlyRename reports whether dest is the directory entry of src itself
// under a name differing only in case, as case-insensitive filesystems show
// it. Symlinks and hard links to src are other entries.
func caseOnlyRename(src, dest string, destInfo fs.FileInfo) bool {
	if !strings.EqualFold(filepath.Base(src), filepath.Base(dest)) {
		return false
	}
	srcInfo, err := os.Lstat(src)
	if err != nil || !os.SameFile(srcInfo, destInfo) {
		return false
	}
	// A hard link spelled exactly like dest is its own entry.
	entries, err := os.ReadDir(filepath.Dir(dest))
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Name() == filepath.Base(dest) {
			return false
		}
	}
	return true
}

func metadata(path string) models.NoteMetadata {
	modified, created := filemeta.FileTimes(path)
	return models.NoteMetadata{
		Path:       path,
		Name:       filemeta.NoteName(path),
		ModifiedAt: modified,
		CreatedAt:  created,
	}
}
