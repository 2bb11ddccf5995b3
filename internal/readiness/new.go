package readiness

import (
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/page"
)

const videoSelector = "video"

type implMonitor struct {
	doc      page.Document
	interval time.Duration
	maxPolls int
	logger   logger.Logger
}

// New creates a Monitor polling doc every interval.
// maxPolls <= 0 polls until the context ends.
func New(doc page.Document, interval time.Duration, maxPolls int, log logger.Logger) Monitor {
	if interval <= 0 {
		interval = time.Second
	}
	return &implMonitor{
		doc:      doc,
		interval: interval,
		maxPolls: maxPolls,
		logger:   log,
	}
}
