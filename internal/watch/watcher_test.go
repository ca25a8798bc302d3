package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/starford/memopad/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var quiet = slog.New(slog.NewJSONHandler(io.Discard, nil))

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) record(kind, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, kind+":"+filepath.Base(path))
}

func (r *recorder) has(want string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == want {
			return true
		}
	}
	return false
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatch(t *testing.T, dir string, rec *recorder) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, dir, quiet, rec.record) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	time.Sleep(100 * time.Millisecond)
}

func TestWatch_CreateWriteDelete(t *testing.T) {
	dir := testutil.Workspace(t)
	rec := &recorder{}
	startWatch(t, dir, rec)

	p := testutil.WriteNote(t, dir, "new.md", "# New")
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool { return rec.has("created:new.md") },
		"create not reported")

	require.NoError(t, os.WriteFile(p, []byte("# Changed"), 0o644))
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool { return rec.has("updated:new.md") },
		"write not reported")

	require.NoError(t, os.Remove(p))
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool { return rec.has("deleted:new.md") },
		"remove not reported")
}

func TestWatch_Rename(t *testing.T) {
	dir := testutil.Workspace(t)
	p := testutil.WriteNote(t, dir, "old.md", "x")
	rec := &recorder{}
	startWatch(t, dir, rec)

	require.NoError(t, os.Rename(p, filepath.Join(dir, "fresh.md")))
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("deleted:old.md") && rec.has("created:fresh.md")
	}, "rename not reported as delete + create")
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := testutil.Workspace(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	rec := &recorder{}
	startWatch(t, dir, rec)

	testutil.WriteNote(t, dir, "image.png", "x")
	testutil.WriteNote(t, filepath.Join(dir, "sub"), "nested.md", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.md"), 0o755))
	testutil.WriteNote(t, dir, "marker.md", "x")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool { return rec.has("created:marker.md") },
		"marker not reported")
	for _, e := range rec.snapshot() {
		assert.Contains(t, []string{"created:marker.md", "updated:marker.md"}, e)
	}
}

func TestWatch_NotADirectory(t *testing.T) {
	dir := testutil.Workspace(t)
	f := testutil.WriteNote(t, dir, "a.md", "")
	assert.Error(t, Watch(context.Background(), f, quiet, nil))
	assert.Error(t, Watch(context.Background(), filepath.Join(dir, "missing"), quiet, nil))
}

func TestManager_Retarget(t *testing.T) {
	first := testutil.Workspace(t)
	second := testutil.Workspace(t)
	rec := &recorder{}
	m := NewManager(context.Background(), quiet, rec.record)
	defer m.Close()

	require.NoError(t, m.Set(first))
	require.NoError(t, m.Set(first))
	assert.Equal(t, first, m.Folder())

	require.NoError(t, m.Set(second))
	assert.Equal(t, second, m.Folder())
	time.Sleep(100 * time.Millisecond)

	testutil.WriteNote(t, first, "ignored.md", "x")
	testutil.WriteNote(t, second, "seen.md", "x")
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool { return rec.has("created:seen.md") },
		"event from new folder not reported")
	assert.False(t, rec.has("created:ignored.md"))
}

func TestManager_SetInvalidKeepsStopped(t *testing.T) {
	dir := testutil.Workspace(t)
	m := NewManager(context.Background(), quiet, nil)
	defer m.Close()

	require.NoError(t, m.Set(dir))
	assert.Error(t, m.Set(filepath.Join(dir, "missing")))
	assert.Empty(t, m.Folder())

	require.NoError(t, m.Set(dir))
	require.NoError(t, m.Set(""))
	assert.Empty(t, m.Folder())
}
