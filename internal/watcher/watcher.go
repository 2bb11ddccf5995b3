package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

type implWatcher struct {
	path    string
	handler ReloadHandler
	logger  logger.Logger
	watcher *fsnotify.Watcher
	settle  time.Duration
}

// Start watches the config file until ctx ends. Bursts of events from one save are
// coalesced into a single reload once the file has been quiet for the settle period.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Config watcher started. Monitoring: %s", w.path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Config watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug(ctx, "Config event: %s", event)
			pending = time.After(w.settle)

		case <-pending:
			pending = nil
			if err := w.handler(ctx, w.path); err != nil {
				w.logger.Error(ctx, "Failed to reload %s: %v", w.path, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}
