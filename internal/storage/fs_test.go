package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func tempStore(t *testing.T) *FS {
	t.Helper()
	fs, err := Open(filepath.Join(t.TempDir(), "fonts"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := fs.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	return fs
}

func TestOpen_DoesNotCreateRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "a", "b")
	s, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := os.Stat(root); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("root should not exist yet, stat err = %v", err)
	}
	if _, err := s.List(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("List err = %v, want ErrNotExist", err)
	}
	if _, err := s.Stat("x.ttf"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Stat err = %v, want ErrNotExist", err)
	}
	if err := s.Delete("x.ttf"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Delete err = %v, want ErrNotExist", err)
	}
	if _, err := os.Stat(root); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("reads created the root, stat err = %v", err)
	}
}

func TestEnsure_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "a", "b")
	s, _ := Open(root)
	if err := s.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		t.Fatalf("root not created: %v", err)
	}
}

func TestEnsure_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "memopad-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	s, _ := Open(f.Name())
	if err := s.Ensure(); err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestWriteFromAndStat(t *testing.T) {
	s := tempStore(t)
	n, err := s.WriteFrom("font.ttf", strings.NewReader("glyphs"), 0)
	if err != nil {
		t.Fatalf("WriteFrom: %v", err)
	}
	if n != 6 {
		t.Errorf("n = %d, want 6", n)
	}
	info, err := s.Stat("font.ttf")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 6 {
		t.Errorf("size = %d, want 6", info.Size())
	}
}

func TestWriteFrom_LimitExceeded(t *testing.T) {
	s := tempStore(t)
	_, err := s.WriteFrom("big.ttf", bytes.NewReader(make([]byte, 11)), 10)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if _, err := s.Stat("big.ttf"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("oversized file should not be stored, stat err = %v", err)
	}
	entries, _ := os.ReadDir(s.root)
	if len(entries) != 0 {
		t.Errorf("leftover files: %v", entries)
	}
}

func TestWriteFrom_ExactLimit(t *testing.T) {
	s := tempStore(t)
	if _, err := s.WriteFrom("ok.ttf", bytes.NewReader(make([]byte, 10)), 10); err != nil {
		t.Fatalf("WriteFrom at limit: %v", err)
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempStore(t)
	_, _ = s.WriteFrom("a.otf", strings.NewReader("v1"), 0)
	if _, err := s.WriteFrom("a.otf", strings.NewReader("v2"), 0); err != nil {
		t.Fatalf("WriteFrom: %v", err)
	}
	got, _ := os.ReadFile(filepath.Join(s.root, "a.otf"))
	if string(got) != "v2" {
		t.Errorf("content = %q, want v2", got)
	}
	matches, _ := filepath.Glob(filepath.Join(s.root, ".memopad-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestDelete(t *testing.T) {
	s := tempStore(t)
	_, _ = s.WriteFrom("del.woff", strings.NewReader("x"), 0)
	if err := s.Delete("del.woff"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("del.woff"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("second delete err = %v, want ErrNotExist", err)
	}
}

func TestList(t *testing.T) {
	s := tempStore(t)
	_, _ = s.WriteFrom("old.ttf", strings.NewReader("a"), 0)
	_, _ = s.WriteFrom("new.ttf", strings.NewReader("b"), 0)
	_ = os.Mkdir(filepath.Join(s.root, "subdir"), 0o755)

	past := time.Now().Add(-time.Hour)
	_ = os.Chtimes(filepath.Join(s.root, "old.ttf"), past, past)

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Name != "new.ttf" {
		t.Errorf("first = %q, want newest first", items[0].Name)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempStore(t)
	cases := []string{
		"../../etc/passwd",
		"../outside.ttf",
		"/etc/shadow",
		".",
		"",
	}
	for _, p := range cases {
		if _, err := s.Path(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if _, err := s.WriteFrom(p, strings.NewReader("x"), 0); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}
