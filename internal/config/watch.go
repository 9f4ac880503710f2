package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration
	updates  chan *Config
	done     chan struct{}
}

// NewWatcher watches the directory holding path so that editors which replace
// the file on save are still seen.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	return &Watcher{
		path:     filepath.Clean(path),
		watcher:  fw,
		logger:   logger,
		debounce: 100 * time.Millisecond,
		updates:  make(chan *Config, 1),
		done:     make(chan struct{}),
	}, nil
}

// Updates delivers each successfully reloaded and validated config.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Run processes events until ctx is cancelled, then closes the watcher and the
// Updates channel.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.done)
	defer close(w.updates)
	defer w.watcher.Close()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			w.reload(ctx)
		}
	}
}

// Wait blocks until Run has returned.
func (w *Watcher) Wait() {
	<-w.done
}

func (w *Watcher) reload(ctx context.Context) {
	cfg, err := Load(w.path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		w.logger.Warn("config reload rejected", zap.String("path", w.path), zap.Error(err))
		return
	}

	w.logger.Info("config reloaded", zap.String("path", w.path))

	// Keep only the newest config if the consumer is behind.
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- cfg:
	case <-ctx.Done():
	}
}
