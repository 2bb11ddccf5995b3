package summarizer

import (
	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/caption-digest/internal/analysis"
	"github.com/nguyentantai21042004/caption-digest/internal/credential"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

type implSummarizer struct {
	client     analysis.Client
	creds      credential.Store
	abstractor Abstractor
	sem        *semaphore.Weighted
	logger     logger.Logger
}

// New creates a Summarizer. maxConcurrent bounds how many summaries run at once across
// all tabs; abstractor may be nil.
func New(client analysis.Client, creds credential.Store, abstractor Abstractor, maxConcurrent int, log logger.Logger) Summarizer {
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	return &implSummarizer{
		client:     client,
		creds:      creds,
		abstractor: abstractor,
		sem:        semaphore.NewWeighted(int64(maxConcurrent)),
		logger:     log,
	}
}
