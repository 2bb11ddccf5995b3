package captions

import (
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/page"
)

var (
	// probeSelectors detect captions currently being rendered.
	probeSelectors = []string{
		".captions-text",
		".ytp-caption-segment",
		".caption-window",
	}

	// containerSelectors pick the subtree to observe, outermost first.
	containerSelectors = []string{
		".ytp-caption-window-container",
		".caption-window",
		".ytp-caption-segment",
		".captions-text",
		".ytp-caption-window",
	}
)

const (
	toggleSelector    = ".ytp-subtitles-button"
	toggleActiveClass = "ytp-button-active"
)

type implResolver struct {
	doc        page.Document
	enableWait time.Duration
	logger     logger.Logger
}

// New creates a Resolver. enableWait is how long to let captions render after the toggle click.
func New(doc page.Document, enableWait time.Duration, log logger.Logger) Resolver {
	return &implResolver{
		doc:        doc,
		enableWait: enableWait,
		logger:     log,
	}
}
