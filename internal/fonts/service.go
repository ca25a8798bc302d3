// Package fonts installs user-picked font files into an application-owned
// directory under generated names.
//
// Only the font bytes are stored. Labels and any other metadata belong to the
// caller; there is no manifest on disk.
package fonts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/memopad/internal/apperr"
	"github.com/starford/memopad/internal/dialog"
	"github.com/starford/memopad/internal/filemeta"
	"github.com/starford/memopad/internal/models"
	"github.com/starford/memopad/internal/storage"
)

// Dir is the fonts subdirectory of the application data directory.
const Dir = "fonts"

// DefaultMaxSize is the default install size limit.
const DefaultMaxSize = 50 << 20

const megabyte = 1 << 20

// Formats lists the accepted font file extensions.
var Formats = []string{"ttf", "otf", "woff", "woff2"}

// DataDirFunc resolves the application data directory.
type DataDirFunc func() (string, error)

// Service runs font commands.
type Service struct {
	dataDir DataDirFunc
	picker  dialog.Picker
	maxSize int64
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPicker sets the picker used by PickFontFile. A nil picker is ignored.
func WithPicker(p dialog.Picker) Option {
	return func(s *Service) {
		if p != nil {
			s.picker = p
		}
	}
}

// WithMaxSize overrides the install size limit in bytes.
func WithMaxSize(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// WithClock overrides the time source for install timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a font service storing files under dataDir()/fonts.
func NewService(dataDir DataDirFunc, opts ...Option) *Service {
	s := &Service{
		dataDir: dataDir,
		picker:  dialog.Disabled{},
		maxSize: DefaultMaxSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PickFontFile opens a native file picker limited to font files.
func (s *Service) PickFontFile(ctx context.Context) (path string, ok bool, err error) {
	return s.picker.PickFile(ctx, dialog.Filter{Name: "Fonts", Extensions: Formats})
}

// InstallFont copies the font at src into the fonts directory under a fresh
// UUID. A blank label defaults to the source file name without extension.
func (s *Service) InstallFont(_ context.Context, src, label string) (*models.InstalledFont, error) {
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.FileNotFound(src)
	}
	if err != nil {
		return nil, apperr.IO(err)
	}
	if !info.Mode().IsRegular() {
		return nil, apperr.FileNotFound(src)
	}

	ext := strings.TrimPrefix(filepath.Ext(src), ".")
	format, ok := formatOf(ext)
	if !ok {
		return nil, apperr.UnsupportedFontFormat(ext)
	}
	if info.Size() > s.maxSize {
		return nil, s.tooLarge(info.Size())
	}

	store, err := s.store()
	if err != nil {
		return nil, err
	}
	if err := store.Ensure(); err != nil {
		return nil, apperr.IO(err)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, apperr.IO(err)
	}
	defer f.Close()

	id := uuid.NewString()
	filename := id + "." + format
	n, err := store.WriteFrom(filename, f, s.maxSize)
	if errors.Is(err, storage.ErrTooLarge) {
		return nil, s.tooLarge(overflowSize(n, f))
	}
	if err != nil {
		return nil, apperr.IO(err)
	}

	label = strings.TrimSpace(label)
	if label == "" {
		label = filemeta.NoteName(src)
	}
	return &models.InstalledFont{
		ID:          id,
		Label:       label,
		Filename:    filename,
		Format:      format,
		InstalledAt: filemeta.Millis(s.now()),
	}, nil
}

// GetInstalledFontPath returns the absolute path of a previously installed font.
func (s *Service) GetInstalledFontPath(_ context.Context, id, format string) (string, error) {
	store, err := s.store()
	if err != nil {
		return "", err
	}
	name := id + "." + format
	abs, err := store.Path(name)
	if err != nil {
		return "", apperr.PathError(err.Error())
	}
	info, err := store.Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		return "", apperr.FileNotFound(name)
	}
	return abs, nil
}

// DeleteInstalledFont removes an installed font. Deleting a font that is not
// there succeeds.
func (s *Service) DeleteInstalledFont(_ context.Context, id, format string) error {
	store, err := s.store()
	if err != nil {
		return err
	}
	if _, err := store.Path(id + "." + format); err != nil {
		return apperr.PathError(err.Error())
	}
	err = store.Delete(id + "." + format)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return apperr.IO(err)
}

// ListInstalledFonts reports the fonts present on disk, newest first. Files
// not named "<uuid>.<format>" are ignored. Before the first install the list
// is empty.
func (s *Service) ListInstalledFonts(_ context.Context) ([]models.FontFile, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	entries, err := store.List()
	if errors.Is(err, fs.ErrNotExist) {
		return []models.FontFile{}, nil
	}
	if err != nil {
		return nil, apperr.IO(err)
	}
	out := make([]models.FontFile, 0, len(entries))
	for _, e := range entries {
		ext := strings.TrimPrefix(filepath.Ext(e.Name), ".")
		format, ok := formatOf(ext)
		if !ok || format != ext {
			continue
		}
		id := strings.TrimSuffix(e.Name, "."+ext)
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		out = append(out, models.FontFile{
			ID:          id,
			Format:      format,
			Filename:    e.Name,
			InstalledAt: filemeta.Millis(e.ModTime),
		})
	}
	return out, nil
}

// store resolves the fonts directory. Only InstallFont creates it.
func (s *Service) store() (*storage.FS, error) {
	if s.dataDir == nil {
		return nil, apperr.PathError("application data directory is not configured")
	}
	dir, err := s.dataDir()
	if err != nil {
		return nil, apperr.PathError(fmt.Sprintf("resolve application data directory: %v", err))
	}
	if dir == "" {
		return nil, apperr.PathError("application data directory is empty")
	}
	store, err := storage.Open(filepath.Join(dir, Dir))
	if err != nil {
		return nil, apperr.IO(err)
	}
	return store, nil
}

// overflowSize reports the source size for a copy cut off at the limit. The
// copy stops one byte past the limit, so the open file is asked for the rest.
func overflowSize(copied int64, src *os.File) int64 {
	info, err := src.Stat()
	if err != nil || info.Size() < copied {
		return copied
	}
	return info.Size()
}

func (s *Service) tooLarge(size int64) *apperr.Error {
	return apperr.FileTooLarge(uint64(s.maxSize/megabyte), uint64((size+megabyte-1)/megabyte))
}

// formatOf normalizes ext and reports whether it is an accepted font format.
func formatOf(ext string) (string, bool) {
	ext = strings.ToLower(ext)
	for _, f := range Formats {
		if f == ext {
			return f, true
		}
	}
	return "", false
}
