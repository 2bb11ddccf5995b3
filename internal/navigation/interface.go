// Package navigation follows page-identity changes inside a single-page video site.
package navigation

import "context"

// Watcher consumes the URLs a tab reports.
type Watcher interface {
	// Run processes urls until ctx ends or urls is closed.
	Run(ctx context.Context, urls <-chan string) error
}

// Resetter abandons the current session and clears the page state.
type Resetter interface {
	Reset(ctx context.Context)
}

// Initializer prepares a freshly loaded watch page.
type Initializer interface {
	Process(ctx context.Context, pageURL string) error
}
