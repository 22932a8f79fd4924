package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/reugn/go-rotation/logger"
	"github.com/reugn/go-rotation/rotation"
)

// DefaultDebounce is the default delay between the last change of the
// policy file and the reload.
const DefaultDebounce = 100 * time.Millisecond

// LoadFunc builds the configuration from the policy file at path.
type LoadFunc func(ctx context.Context, path string) (*Config, error)

// WatcherOptions configures a [Watcher].
type WatcherOptions struct {
	// Debounce coalesces bursts of file events into a single reload.
	Debounce time.Duration

	// Load builds the configuration on reload. LoadFile is used when nil.
	Load LoadFunc

	// OnReload is called with every applied configuration.
	OnReload func(*Config)

	// Logger receives the watcher records. The default logger is used
	// when nil.
	Logger logger.Logger
}

// Watcher reloads a policy file into a calendar whenever it changes.
// A file that fails to load or validate leaves the active policy in place.
type Watcher struct {
	path     string
	calendar *rotation.Calendar
	opts     WatcherOptions
	logger   logger.Logger

	mtx   sync.Mutex
	timer *time.Timer
}

// NewWatcher returns a new Watcher for the policy file at path.
func NewWatcher(path string, calendar *rotation.Calendar, opts WatcherOptions) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("watcher path is empty")
	}
	if calendar == nil {
		return nil, errors.New("watcher calendar is nil")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Load == nil {
		opts.Load = func(_ context.Context, path string) (*Config, error) {
			return LoadFile(path)
		}
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:     absPath,
		calendar: calendar,
		opts:     opts,
		logger:   logger.OrDefault(opts.Logger),
	}, nil
}

// Reload loads the policy file and replaces the calendar policy with it.
func (w *Watcher) Reload(ctx context.Context) error {
	cfg, err := w.opts.Load(ctx, w.path)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	if err := w.calendar.ReplaceOptions(opts...); err != nil {
		return err
	}
	w.logger.Info("Policy reloaded", "path", w.path, "policy", w.calendar.Policy())
	if w.opts.OnReload != nil {
		w.opts.OnReload(cfg)
	}
	return nil
}

// Watch blocks, reloading the policy on file changes, until the context
// is canceled. The parent directory is watched so that editors replacing
// the file by rename are followed.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	w.logger.Info("Watching policy file", "path", w.path,
		"debounce", w.opts.Debounce)

	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Policy watcher stopped", "path", w.path)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != w.path ||
				!event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			w.logger.Debug("Policy file event", "path", event.Name, "op", event.Op.String())
			w.schedule(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("File watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() {
		if ctx.Err() != nil {
			return
		}
		if err := w.Reload(ctx); err != nil {
			w.logger.Error("Policy reload failed, keeping the active policy",
				"path", w.path, "error", err)
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}
