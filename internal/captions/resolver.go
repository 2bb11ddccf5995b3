package captions

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/errors"
	"github.com/nguyentantai21042004/caption-digest/internal/page"
)

func (r *implResolver) Resolve(ctx context.Context) (page.Element, error) {
	visible, err := r.firstMatch(ctx, probeSelectors)
	if err != nil {
		return page.Element{}, err
	}

	if !visible {
		if err := r.tryEnable(ctx); err != nil {
			return page.Element{}, err
		}
	}

	for _, sel := range containerSelectors {
		el, ok, err := r.doc.Query(ctx, sel)
		if err != nil {
			return page.Element{}, fmt.Errorf("query %s: %w", sel, err)
		}
		if ok {
			r.logger.Debug(ctx, "Caption source resolved: %s (%s)", sel, el.Ref)
			return el, nil
		}
	}

	return page.Element{}, errors.NewCaptionsUnavailable("Cannot find captions container. Please ensure captions are enabled and visible.")
}

// tryEnable clicks the subtitles toggle once, waits, and probes again.
func (r *implResolver) tryEnable(ctx context.Context) error {
	toggle, ok, err := r.doc.Query(ctx, toggleSelector)
	if err != nil {
		return fmt.Errorf("query %s: %w", toggleSelector, err)
	}
	if !ok || toggle.HasClass(toggleActiveClass) {
		return errors.NewCaptionsUnavailable("No captions found. Please ensure this video has captions available.")
	}

	r.logger.Info(ctx, "Captions off, clicking subtitles toggle")
	if err := r.doc.Click(ctx, toggle); err != nil {
		return fmt.Errorf("click subtitles toggle: %w", err)
	}

	timer := time.NewTimer(r.enableWait)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
	}

	visible, err := r.firstMatch(ctx, probeSelectors)
	if err != nil {
		return err
	}
	if !visible {
		return errors.NewCaptionsUnavailable("Please ensure captions are available for this video and enabled (CC)")
	}
	return nil
}

func (r *implResolver) firstMatch(ctx context.Context, selectors []string) (bool, error) {
	for _, sel := range selectors {
		_, ok, err := r.doc.Query(ctx, sel)
		if err != nil {
			return false, fmt.Errorf("query %s: %w", sel, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
