package filemeta

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTimes(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.md")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	mtime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(p, mtime, mtime))

	modified, created := FileTimes(p)
	assert.Equal(t, uint64(mtime.UnixMilli()), modified)
	assert.NotZero(t, created)
}

func TestFileTimes_MissingFile(t *testing.T) {
	modified, created := FileTimes(filepath.Join(t.TempDir(), "gone.md"))
	assert.Zero(t, modified)
	assert.Zero(t, created)
}

func TestMillis_PreEpoch(t *testing.T) {
	assert.Zero(t, Millis(time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, uint64(1500), Millis(time.UnixMilli(1500)))
}

func TestNoteName(t *testing.T) {
	cases := map[string]string{
		"/ws/draft.md":       "draft",
		"/ws/draft-1.md":     "draft-1",
		"/ws/archive.tar.md": "archive.tar",
		"/ws/noext":          "noext",
		"/ws/.md":            Untitled,
		"/ws/bad\xff.md":     Untitled,
	}
	for in, want := range cases {
		assert.Equal(t, want, NoteName(in), "NoteName(%q)", in)
	}
}
