package watcher

import "context"

// Watcher defines the interface for config file monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// ReloadHandler is called with the path of the config file after it changed on disk.
type ReloadHandler func(ctx context.Context, path string) error
