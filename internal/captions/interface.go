package captions

import (
	"context"

	"github.com/nguyentantai21042004/caption-digest/internal/page"
)

// Resolver finds the caption subtree to observe for one session.
type Resolver interface {
	// Resolve returns the caption container or a CAPTIONS_UNAVAILABLE error.
	// It clicks the subtitles toggle at most once per call.
	Resolve(ctx context.Context) (page.Element, error)
}
