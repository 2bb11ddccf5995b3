package summarizer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/caption-digest/internal/analysis"
	"github.com/nguyentantai21042004/caption-digest/internal/errors"
)

// Summarize runs classification and topic extraction concurrently, then ranks and
// formats whatever survives the relevance floor.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string) (*Result, error) {
	if !s.sem.TryAcquire(1) {
		s.logger.Info(ctx, "Summary queued, all slots busy")
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
	}
	defer s.sem.Release(1)

	key, err := s.creds.Get(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrCredentialMissing) {
			return nil, err
		}
		return nil, fmt.Errorf("read credential: %w", err)
	}

	startTime := time.Now()
	var (
		classResp  *analysis.ClassResponse
		topicsResp *analysis.TopicsResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := s.client.Classify(gctx, key, transcript)
		if err != nil {
			return err
		}
		classResp = resp
		return nil
	})
	g.Go(func() error {
		resp, err := s.client.Topics(gctx, key, transcript)
		if err != nil {
			return err
		}
		topicsResp = resp
		return nil
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewTransportFailure(err)
	}

	s.logger.Debug(ctx, "Analysis responses received in %s", time.Since(startTime))

	if err := checkStatus(classResp.Status); err != nil {
		return nil, err
	}
	if err := checkStatus(topicsResp.Status); err != nil {
		return nil, err
	}

	categories := make([]Entry, 0, len(classResp.CategoryList))
	for _, c := range classResp.CategoryList {
		categories = append(categories, Entry{Label: shortLabel(c.Label), Relevance: float64(c.Relevance)})
	}
	concepts := make([]Entry, 0, len(topicsResp.ConceptList))
	for _, c := range topicsResp.ConceptList {
		concepts = append(concepts, Entry{Label: c.Form, Relevance: float64(c.Relevance)})
	}

	categories = rank(categories)
	concepts = rank(concepts)
	if len(categories) == 0 && len(concepts) == 0 {
		return nil, errors.NewContentNotExtracted()
	}

	result := &Result{
		Categories: categories,
		Concepts:   concepts,
		Text:       Format(categories, concepts),
	}

	if s.abstractor != nil {
		abstract, err := s.abstractor.Abstract(ctx, transcript)
		if err != nil {
			s.logger.Warn(ctx, "Abstract skipped: %v", err)
		} else {
			result.Abstract = abstract
		}
	}

	return result, nil
}

// checkStatus maps the service status block to an error. A missing block is success.
func checkStatus(st *analysis.Status) error {
	if st == nil {
		return nil
	}
	switch string(st.Code) {
	case "0", "":
		return nil
	case "100":
		return errors.NewAPIDenied()
	case "104":
		return errors.NewRateLimited()
	case "200":
		return errors.NewMalformedRequest()
	case "201":
		return errors.NewTextTooShort()
	default:
		return errors.NewUnknownAPI(string(st.Code), st.Msg)
	}
}
