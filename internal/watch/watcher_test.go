package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	configPath  string
	contentRoot string
	runs        atomic.Int32
	cancel      context.CancelFunc
	done        chan error
}

func startWatcher(t *testing.T, runErr error) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		configPath:  filepath.Join(dir, "navbuilder.yaml"),
		contentRoot: filepath.Join(dir, "src"),
		done:        make(chan error, 1),
	}
	require.NoError(t, os.WriteFile(f.configPath, []byte("site:\n  title: Blog\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(f.contentRoot, "posts"), 0o755))

	w, err := New(f.configPath, f.contentRoot, func(context.Context) error {
		f.runs.Add(1)
		return runErr
	}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	go func() { f.done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-f.done:
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	require.Eventually(t, func() bool { return f.runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	return f
}

func TestWatcher_ConfigChangeTriggersRun(t *testing.T) {
	f := startWatcher(t, nil)

	require.NoError(t, os.WriteFile(f.configPath, []byte("site:\n  title: Changed\n"), 0o644))
	require.Eventually(t, func() bool { return f.runs.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	f := startWatcher(t, nil)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(f.contentRoot, "posts", "go.md"), []byte("# Go\n"), 0o644))
	}
	require.Eventually(t, func() bool { return f.runs.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(2), f.runs.Load())
}

func TestWatcher_NewDirectoryIsWatched(t *testing.T) {
	f := startWatcher(t, nil)

	notes := filepath.Join(f.contentRoot, "notes")
	require.NoError(t, os.Mkdir(notes, 0o755))
	require.Eventually(t, func() bool { return f.runs.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(notes, "a.md"), []byte("# A\n"), 0o644))
	require.Eventually(t, func() bool { return f.runs.Load() == 3 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_KeepsRunningAfterFailure(t *testing.T) {
	f := startWatcher(t, errors.New("broken config"))

	require.NoError(t, os.WriteFile(f.configPath, []byte("x"), 0o644))
	require.Eventually(t, func() bool { return f.runs.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	f := startWatcher(t, nil)
	f.cancel()
	select {
	case err := <-f.done:
		assert.NoError(t, err)
		f.done <- nil
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRelevant(t *testing.T) {
	w := &Watcher{configPath: "/site/navbuilder.yaml", contentRoot: "/site/src"}

	assert.True(t, w.relevant(fsnotify.Event{Name: "/site/navbuilder.yaml", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/site/.env.local", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/site/other.yaml", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/site/navbuilder.yaml", Op: fsnotify.Chmod}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/site/src/posts/go.md", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/site/src/posts/logo.png", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/site/src/posts/old", Op: fsnotify.Remove}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/site/src/.vuepress/config.ts", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/site/srcx/a.md", Op: fsnotify.Write}))
}

func TestWatcher_SetContentRoot(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "navbuilder.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("site:\n  title: Blog\n"), 0o644))
	src := filepath.Join(dir, "src")
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "posts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(docs, "posts"), 0o755))

	var runs atomic.Int32
	w, err := New(configPath, "", func(context.Context) error {
		runs.Add(1)
		return nil
	}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(src, "posts", "a.md"), []byte("# A\n"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load(), "content is not watched without a root")

	w.SetContentRoot(src)
	require.NoError(t, os.WriteFile(filepath.Join(src, "posts", "b.md"), []byte("# B\n"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	w.SetContentRoot(docs)
	require.NoError(t, os.WriteFile(filepath.Join(docs, "posts", "c.md"), []byte("# C\n"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() == 3 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(src, "posts", "d.md"), []byte("# D\n"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(3), runs.Load(), "the previous root is no longer watched")

	// The config directory stays watched.
	require.NoError(t, os.WriteFile(configPath, []byte("site:\n  title: Blog 2\n"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() == 4 }, 2*time.Second, 10*time.Millisecond)
}
