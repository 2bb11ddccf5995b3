package processor

import (
	"context"
	"fmt"
	"time"
)

// Process waits for the page's video element and hands it to the controller.
func (p *implProcessor) Process(ctx context.Context, pageURL string) error {
	startTime := time.Now()
	p.logger.Info(ctx, "Initializing page: %s", pageURL)

	video, err := p.monitor.EnsureReady(ctx)
	if err != nil {
		return fmt.Errorf("ensure ready: %w", err)
	}
	// The page may have been left while the last poll was in flight.
	if err := ctx.Err(); err != nil {
		return err
	}

	p.armer.Arm(video)
	p.logger.Info(ctx, "Page ready in %s", time.Since(startTime))
	return nil
}
