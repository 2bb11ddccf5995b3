package navigation

import (
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

const defaultReinitDelay = 1500 * time.Millisecond

type implWatcher struct {
	resetter Resetter
	init     Initializer
	delay    time.Duration
	logger   logger.Logger
}

// New creates a Watcher. delay is how long to wait after a navigation before
// re-initializing, giving the new page time to render.
func New(resetter Resetter, init Initializer, delay time.Duration, log logger.Logger) Watcher {
	if delay <= 0 {
		delay = defaultReinitDelay
	}
	return &implWatcher{
		resetter: resetter,
		init:     init,
		delay:    delay,
		logger:   log,
	}
}
