package readiness

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/errors"
	"github.com/nguyentantai21042004/caption-digest/internal/page"
)

// EnsureReady polls sequentially: the first probe is immediate, each retry waits one interval.
func (m *implMonitor) EnsureReady(ctx context.Context) (page.Video, error) {
	polls := 0
	for {
		polls++
		el, ok, err := m.doc.Query(ctx, videoSelector)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			m.logger.Debug(ctx, "Video probe %d failed: %v", polls, err)
		case ok:
			m.logger.Debug(ctx, "Video element found after %d polls", polls)
			return m.doc.Media(el), nil
		}

		if m.maxPolls > 0 && polls >= m.maxPolls {
			return nil, errors.NewPageNotReady(polls)
		}

		timer := time.NewTimer(m.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
