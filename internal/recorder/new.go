package recorder

import (
	"sync"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/captions"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/overlay"
	"github.com/nguyentantai21042004/caption-digest/internal/page"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
)

const defaultDuration = 60 * time.Second

type implController struct {
	doc        page.Document
	resolver   captions.Resolver
	summarizer summarizer.Summarizer
	presenter  overlay.Presenter
	opts       Options
	logger     logger.Logger

	mu           sync.Mutex
	state        State
	video        page.Video
	session      *Session
	overlays     []overlay.Handle
	indicator    overlay.Handle
	loading      overlay.Handle
	summary      overlay.Handle
	onTransition TransitionFunc
}

// New creates a Controller for one tab.
func New(doc page.Document, resolver captions.Resolver, sum summarizer.Summarizer, presenter overlay.Presenter, opts Options, log logger.Logger) Controller {
	if opts.Duration <= 0 {
		opts.Duration = defaultDuration
	}
	return &implController{
		doc:        doc,
		resolver:   resolver,
		summarizer: sum,
		presenter:  presenter,
		opts:       opts,
		logger:     log,
	}
}
