package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lectern/internal/logger"
)

// defaultDebounce collapses the burst of events editors emit on save.
const defaultDebounce = 100 * time.Millisecond

// Watcher reloads a ConfigStore when its file changes on disk.
type Watcher struct {
	store    *ConfigStore
	fsw      *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher creates a watcher for store's file. The parent directory is
// watched because editors often replace the file rather than write it.
func NewWatcher(store *ConfigStore) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(store.Path())); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch config directory: %w", err)
	}
	return &Watcher{store: store, fsw: fsw, debounce: defaultDebounce}, nil
}

// Watch reloads the store after each change and signals on the returned
// channel. The channel is closed when ctx is done.
func (w *Watcher) Watch(ctx context.Context) <-chan struct{} {
	reloaded := make(chan struct{}, 1)

	go func() {
		defer close(reloaded)

		var (
			timer   *time.Timer
			pending <-chan time.Time
		)
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if !w.relevant(event) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(w.debounce)
				} else {
					timer.Reset(w.debounce)
				}
				pending = timer.C
			case <-pending:
				pending = nil
				if err := w.store.Load(); err != nil {
					logger.Warn("reload config: %v", err)
					continue
				}
				logger.Debug("config reloaded from %s", w.store.Path())
				select {
				case reloaded <- struct{}{}:
				default:
				}
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher: %v", err)
			}
		}
	}()

	return reloaded
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.store.Path()) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}
