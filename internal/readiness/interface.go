package readiness

import (
	"context"

	"github.com/nguyentantai21042004/caption-digest/internal/page"
)

// Monitor waits for the page's media element.
type Monitor interface {
	// EnsureReady polls until a video element exists and returns a handle to it.
	EnsureReady(ctx context.Context) (page.Video, error)
}
