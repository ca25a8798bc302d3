package pathguard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/memopad/internal/apperr"
)

func TestIsMarkdownFile(t *testing.T) {
	cases := map[string]bool{
		"note.md":          true,
		"NOTE.MD":          true,
		"/ws/a/b.Md":       true,
		"note.markdown":    false,
		"note.txt":         false,
		"md":               false,
		"note.md.bak":      false,
		"/ws/folder.md/x":  false,
		"archive.tar.md":   true,
		"no-extension":     false,
		"trailing-dot.md.": false,
	}
	for path, want := range cases {
		assert.Equal(t, want, IsMarkdownFile(path), "IsMarkdownFile(%q)", path)
	}
}

func TestIsSafeFilename(t *testing.T) {
	safe := []string{"", "   ", "note", "my note", "draft-1", "2024-01-01 ideas", "日本語", "a.b", "  padded  "}
	for _, n := range safe {
		assert.True(t, IsSafeFilename(n), "expected %q to be safe", n)
	}

	unsafe := []string{
		"../secret",
		"..",
		"a..b",
		"sub/note",
		`sub\note`,
		"/etc/passwd",
		".hidden",
		"  .hidden",
		"..\\up",
	}
	for _, n := range unsafe {
		assert.False(t, IsSafeFilename(n), "expected %q to be unsafe", n)
	}
}

func workspace(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestIsWithinFolder(t *testing.T) {
	root := t.TempDir()
	ws := filepath.Join(root, "ws")
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ws2"), 0o755))

	inside := filepath.Join(ws, "a.md")
	nested := filepath.Join(ws, "sub", "b.md")
	outside := filepath.Join(root, "secret.md")
	sibling := filepath.Join(root, "ws2", "c.md")
	for _, p := range []string{inside, nested, outside, sibling} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	cases := []struct {
		target string
		want   bool
	}{
		{inside, true},
		{nested, true},
		{ws, true},
		{filepath.Join(ws, "sub", "..", "a.md"), true},
		{ws + string(os.PathSeparator) + ".." + string(os.PathSeparator) + "secret.md", false},
		{outside, false},
		{sibling, false},
	}
	for _, tc := range cases {
		got, err := IsWithinFolder(ws, tc.target)
		require.NoError(t, err, tc.target)
		assert.Equal(t, tc.want, got, "IsWithinFolder(%q)", tc.target)
	}
}

func TestIsWithinFolder_SymlinkEscape(t *testing.T) {
	root := workspace(t)
	ws := filepath.Join(root, "ws")
	require.NoError(t, os.Mkdir(ws, 0o755))
	outside := filepath.Join(root, "outside.md")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))

	link := filepath.Join(ws, "link.md")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := IsWithinFolder(ws, link)
	require.NoError(t, err)
	assert.False(t, got, "symlink pointing outside the folder must not be contained")
}

func TestIsWithinFolder_SymlinkedFolder(t *testing.T) {
	root := workspace(t)
	realDir := filepath.Join(root, "realDir")
	require.NoError(t, os.Mkdir(realDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(realDir, "a.md"), nil, 0o644))

	alias := filepath.Join(root, "alias")
	if err := os.Symlink(realDir, alias); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := IsWithinFolder(alias, filepath.Join(realDir, "a.md"))
	require.NoError(t, err)
	assert.True(t, got)
}

func TestIsWithinFolder_ResolutionErrors(t *testing.T) {
	ws := workspace(t)

	_, err := IsWithinFolder(ws, filepath.Join(ws, "missing.md"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrIO))

	_, err = IsWithinFolder(filepath.Join(ws, "nope"), ws)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidFolder))
}

func TestIsWithinFolder_BlankFolder(t *testing.T) {
	ws := workspace(t)
	for _, folder := range []string{"", "   "} {
		_, err := IsWithinFolder(folder, ws)
		assert.True(t, errors.Is(err, apperr.ErrInvalidFolder), "folder %q", folder)
	}
}
