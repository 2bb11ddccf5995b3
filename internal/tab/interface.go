package tab

import (
	"context"
	"encoding/json"
)

// Handler receives what the page sends on its own initiative.
type Handler interface {
	// HandleEvent runs on the read loop and must not block.
	HandleEvent(ctx context.Context, op string, params json.RawMessage)
	// HandleCall runs on its own goroutine; the result is sent back to the page.
	HandleCall(ctx context.Context, op string, params json.RawMessage) (any, error)
}
