package processor

import (
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/page"
	"github.com/nguyentantai21042004/caption-digest/internal/readiness"
)

// Armer receives the video element once the page is ready.
type Armer interface {
	Arm(video page.Video)
}

type implProcessor struct {
	monitor readiness.Monitor
	armer   Armer
	logger  logger.Logger
}

// New creates a new Processor instance
func New(monitor readiness.Monitor, armer Armer, log logger.Logger) Processor {
	return &implProcessor{
		monitor: monitor,
		armer:   armer,
		logger:  log,
	}
}
