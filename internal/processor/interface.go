package processor

import "context"

// Processor prepares a watch page for recording: it waits for the video element and
// arms the tab's controller with it.
type Processor interface {
	Process(ctx context.Context, pageURL string) error
}
