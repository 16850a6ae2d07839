// Package watch re-runs navigation resolution when the configuration or the
// content tree changes.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/navbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/navbuilder/internal/logfields"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 500 * time.Millisecond

// RunFunc performs one resolve run.
type RunFunc func(ctx context.Context) error

// Watcher monitors the configuration file and content directory.
type Watcher struct {
	configPath string
	run        RunFunc
	debounce   time.Duration

	rootMu      sync.RWMutex
	contentRoot string

	watcher *fsnotify.Watcher
	trigger chan struct{}
	runMu   sync.Mutex
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New creates a watcher. contentRoot may be empty to watch the config only.
func New(configPath, contentRoot string, run RunFunc, opts ...Option) (*Watcher, error) {
	absConfig, err := filepath.Abs(configPath)
	if err != nil {
		return nil, errors.RuntimeError("failed to resolve config path").WithCause(err).Build()
	}
	if contentRoot != "" {
		if contentRoot, err = filepath.Abs(contentRoot); err != nil {
			return nil, errors.RuntimeError("failed to resolve content root").WithCause(err).Build()
		}
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.RuntimeError("failed to create file watcher").WithCause(err).Build()
	}

	w := &Watcher{
		configPath:  absConfig,
		contentRoot: contentRoot,
		run:         run,
		debounce:    DefaultDebounce,
		watcher:     fw,
		trigger:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run performs an initial run, then re-runs after every settled change until
// ctx is canceled. Run failures are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	configDir := filepath.Dir(w.configPath)
	if err := w.watcher.Add(configDir); err != nil {
		return errors.RuntimeError("failed to watch config directory").
			WithCause(err).
			WithContext("path", configDir).
			Build()
	}
	root := w.root()
	if root != "" {
		if err := w.addTree(root); err != nil {
			slog.Warn("Content directory not watched", logfields.Path(root), logfields.Error(err))
		}
	}

	slog.Info("Watching for changes", logfields.Config(w.configPath), logfields.Path(root))
	w.runOnce(ctx)

	go w.debounceLoop(ctx)
	return w.watchLoop(ctx)
}

func (w *Watcher) root() string {
	w.rootMu.RLock()
	defer w.rootMu.RUnlock()
	return w.contentRoot
}

// SetContentRoot switches the watched content tree. An empty root watches
// the configuration only.
func (w *Watcher) SetContentRoot(root string) {
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			slog.Warn("Content directory not watched", logfields.Path(root), logfields.Error(err))
			return
		}
		root = abs
	}

	w.rootMu.Lock()
	old := w.contentRoot
	w.contentRoot = root
	w.rootMu.Unlock()
	if old == root {
		return
	}

	if old != "" {
		configDir := filepath.Dir(w.configPath)
		for _, p := range w.watcher.WatchList() {
			if p != configDir && within(old, p) {
				_ = w.watcher.Remove(p)
			}
		}
	}
	if root != "" {
		if err := w.addTree(root); err != nil {
			slog.Warn("Content directory not watched", logfields.Path(root), logfields.Error(err))
		}
	}
	slog.Info("Content directory changed", logfields.Path(root))
}

// addTree watches root and every non-hidden directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}

func (w *Watcher) watchLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				slog.Debug("Change detected", logfields.Path(event.Name), logfields.Event(event.Op.String()))
				w.notify()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", logfields.Error(err))
		}
	}
}

// relevant filters events down to the config file, .env files and content changes.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == w.configPath {
		return true
	}
	base := filepath.Base(name)
	if filepath.Dir(name) == filepath.Dir(w.configPath) && strings.HasPrefix(base, ".env") {
		return true
	}
	root := w.root()
	if root == "" || !within(root, name) {
		return false
	}
	if strings.HasPrefix(base, ".") {
		return false
	}
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if err := w.addTree(name); err != nil {
				slog.Warn("New directory not watched", logfields.Path(name), logfields.Error(err))
			}
			return true
		}
	}
	return strings.EqualFold(filepath.Ext(base), ".md") || event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename)
}

func (w *Watcher) notify() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.trigger:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() { w.runOnce(ctx) })
		}
	}
}

// runOnce serializes runs; a change during a run schedules the next one.
func (w *Watcher) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	w.runMu.Lock()
	defer w.runMu.Unlock()
	if err := w.run(ctx); err != nil {
		slog.Error("Resolve run failed",
			slog.String("category", string(errors.GetCategory(err))),
			logfields.Error(err))
	}
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
