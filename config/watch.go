package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/philipp01105/loggy/logger"
)

// DefaultDebounceInterval collapses the burst of events an editor
// produces when saving a file into one reload
const DefaultDebounceInterval = 100 * time.Millisecond

// Watcher reloads a config file into a Logger whenever the file changes.
// Invalid versions of the file are reported and skipped; the Logger
// keeps its previous setup until a valid version appears.
type Watcher struct {
	path     string
	logger   *logger.Logger
	diag     *zap.Logger
	debounce time.Duration
	fs       *fsnotify.Watcher
	reloaded func(error)
}

// NewWatcher starts watching path. The directory is watched rather than
// the file, so replacing the file (rename over it) is seen as well.
func NewWatcher(path string, l *logger.Logger, diag *zap.Logger) (*Watcher, error) {
	if diag == nil {
		diag = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		logger:   l,
		diag:     diag.With(zap.String("config", abs)),
		debounce: DefaultDebounceInterval,
		fs:       fs,
	}, nil
}

// OnReload registers fn to be called after every reload attempt with
// its result. It must be set before Run.
func (w *Watcher) OnReload(fn func(error)) {
	w.reloaded = fn
}

// Run processes file events until ctx is done or Close is called
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.diag.Warn("file watcher error", zap.Error(err))

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err == nil {
		err = cfg.Reload(w.logger)
	}
	if err != nil {
		w.diag.Warn("config reload failed", zap.Error(err))
	} else {
		w.diag.Info("config reloaded", zap.Int("sinks", len(cfg.Sinks)))
	}
	if w.reloaded != nil {
		w.reloaded(err)
	}
}

// Close stops the file watcher; a running Run returns
func (w *Watcher) Close() error {
	return w.fs.Close()
}
