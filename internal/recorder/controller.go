package recorder

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/nguyentantai21042004/caption-digest/internal/errors"
	"github.com/nguyentantai21042004/caption-digest/internal/overlay"
	"github.com/nguyentantai21042004/caption-digest/internal/page"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// uiTimeout bounds one page round trip made while holding the controller lock.
const uiTimeout = 5 * time.Second

func (c *implController) Arm(video page.Video) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.video = video
}

func (c *implController) OnTransition(fn TransitionFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTransition = fn
}

func (c *implController) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{State: c.state}
	if c.session != nil {
		st.SessionID = c.session.ID
	}
	return st
}

func (c *implController) Toggle(ctx context.Context) (bool, error) {
	c.mu.Lock()
	idle := c.state == Idle
	c.mu.Unlock()

	if idle {
		if err := c.Start(ctx); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := c.Stop(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Start opens a new session and resolves captions in the background.
func (c *implController) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Idle {
		c.logger.Debug(ctx, "Start ignored in state %s", c.state)
		return nil
	}
	if c.video == nil {
		err := &errors.DigestError{Code: errors.ErrPageNotReady, Message: "video element not ready"}
		c.logger.Warn(ctx, "Start rejected: %v", err)
		return err
	}

	sctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &Session{
		ID:        ulid.Make().String(),
		StartedAt: time.Now(),
		Video:     c.video,
		ctx:       sctx,
		cancel:    cancel,
	}
	c.session = s
	c.transition(ResolvingCaptions)
	c.logger.Info(ctx, "Session %s started", s.ID)

	go c.resolve(s)
	return nil
}

func (c *implController) resolve(s *Session) {
	el, err := c.resolver.Resolve(s.ctx)
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.current(s) {
			return
		}
		c.fail(s, err)
		return
	}

	// Observe outlives a stop or reset so the observer it creates can be disconnected below.
	octx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), uiTimeout)
	sub, err := c.doc.Observe(octx, el)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(s) {
		if sub != nil {
			c.disconnectStale(sub)
		}
		return
	}
	if err != nil {
		c.fail(s, errors.NewCaptionsUnavailable("Cannot observe captions container: "+err.Error()))
		return
	}

	s.Source = el
	s.Buffer = transcript.NewBuffer(c.opts.DedupeRepeats)
	s.capture = transcript.Start(s.ctx, sub, s.Buffer, c.opts.Duration, func(r transcript.Reason) {
		c.captureEnded(s, r)
	})
	c.transition(Capturing)

	c.indicator = c.show(overlay.KindIndicator, overlay.Indicator())
	c.logger.Info(s.ctx, "Session %s capturing from %s", s.ID, el.Ref)
}

// captureEnded handles endings the capture reports on its own: timeout, detachment
// and a closed subscription.
func (c *implController) captureEnded(s *Session, r transcript.Reason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(s) || c.state != Capturing {
		return
	}

	c.logger.Info(s.ctx, "Session %s capture ended: %s", s.ID, r)
	c.captureFinished(s, r)
}

// captureFinished moves a stopped capture on to summarizing, or fails the session when
// the transcript cannot be trusted.
func (c *implController) captureFinished(s *Session, r transcript.Reason) {
	switch r {
	case transcript.ReasonDetached:
		c.dismiss(&c.indicator)
		c.fail(s, errors.NewCaptionSourceDetached())
	case transcript.ReasonOverflow:
		c.dismiss(&c.indicator)
		c.fail(s, errors.NewCaptureOverflow())
	default:
		c.finalize(s)
	}
}

// Stop ends capture, abandons a session still resolving captions, and is a no-op once
// the transcript is being summarized.
func (c *implController) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		return nil
	}

	switch c.state {
	case ResolvingCaptions:
		c.logger.Info(ctx, "Session %s abandoned while resolving captions", s.ID)
		c.endSession(s)
		c.transition(Idle)
	case Capturing:
		if err := s.capture.Stop(); err != nil {
			c.logger.Warn(ctx, "Disconnect observer: %v", err)
		}
		c.captureFinished(s, s.capture.Reason())
	default:
		c.logger.Debug(ctx, "Stop ignored in state %s", c.state)
	}
	return nil
}

// finalize runs with the lock held once the capture has stopped and the buffer is frozen.
func (c *implController) finalize(s *Session) {
	c.transition(Finalizing)
	c.dismiss(&c.indicator)

	ctx, cancel := c.uiContext()
	if err := s.Video.Pause(ctx); err != nil {
		c.logger.Warn(ctx, "Pause video: %v", err)
	}
	cancel()

	c.loading = c.show(overlay.KindLoading, overlay.Loading())

	if s.Buffer.Empty() {
		c.dismiss(&c.loading)
		c.fail(s, errors.NewEmptyTranscript())
		return
	}

	text := s.Buffer.String()
	c.logger.Info(s.ctx, "Session %s captured %d fragments (%d chars)", s.ID, s.Buffer.Fragments(), len(text))
	c.show(overlay.KindCapturedText, overlay.CapturedText(text, c.opts.PreviewMaxChars))
	c.transition(Summarizing)

	go c.summarize(s, text)
}

func (c *implController) summarize(s *Session, text string) {
	res, err := c.summarizer.Summarize(s.ctx, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(s) {
		c.logger.Debug(context.Background(), "Discarding result of stale session %s", s.ID)
		return
	}

	c.dismiss(&c.loading)
	if err != nil {
		c.fail(s, err)
		return
	}

	c.summary = c.show(overlay.KindSummary, overlay.Summary(res.Text, res.Abstract))
	c.logger.Info(s.ctx, "Session %s summarized in %s", s.ID, time.Since(s.StartedAt))
	c.endSession(s)
	c.transition(Idle)
}

// fail shows the error overlay and walks the machine through Error back to Idle.
func (c *implController) fail(s *Session, err error) {
	c.logger.Error(s.ctx, "Session %s failed in state %s: %v", s.ID, c.state, err)
	c.show(overlay.KindError, overlay.Error(errors.UserMessage(err)))
	c.endSession(s)
	c.transition(Error)
	c.transition(Idle)
}

func (c *implController) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.session; s != nil {
		c.logger.Info(ctx, "Session %s reset in state %s", s.ID, c.state)
		if s.capture != nil {
			if err := s.capture.Stop(); err != nil {
				c.logger.Warn(ctx, "Disconnect observer: %v", err)
			}
		}
		c.endSession(s)
	}

	for len(c.overlays) > 0 {
		h := c.overlays[0]
		c.dismiss(&h)
	}
	c.indicator, c.loading, c.summary = "", "", ""
	c.video = nil

	if c.state != Idle {
		c.transition(Idle)
	}
}

func (c *implController) Resume(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dismiss(&c.summary)
	if c.video == nil {
		return nil
	}
	if err := c.video.Play(ctx); err != nil {
		return fmt.Errorf("play video: %w", err)
	}
	return nil
}

func (c *implController) HandleAction(ctx context.Context, h overlay.Handle, action string) error {
	switch action {
	case overlay.ActionResume:
		return c.Resume(ctx)
	case overlay.ActionDismiss:
		c.mu.Lock()
		defer c.mu.Unlock()
		c.forget(h)
		return nil
	default:
		c.logger.Warn(ctx, "Unknown overlay action %q", action)
		return nil
	}
}

func (c *implController) current(s *Session) bool {
	return c.session == s
}

func (c *implController) endSession(s *Session) {
	s.cancel()
	if c.session == s {
		c.session = nil
	}
}

func (c *implController) transition(to State) {
	from := c.state
	c.state = to
	if c.session != nil {
		c.session.State = to
	}
	c.logger.Debug(context.Background(), "State %s -> %s", from, to)
	if c.onTransition != nil {
		c.onTransition(from, to)
	}
}

func (c *implController) uiContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), uiTimeout)
}

// show displays an overlay and tracks it for Reset. Presenter failures are logged only.
func (c *implController) show(kind overlay.Kind, p overlay.Payload) overlay.Handle {
	ctx, cancel := c.uiContext()
	defer cancel()
	h, err := c.presenter.Show(ctx, kind, p)
	if err != nil {
		c.logger.Warn(ctx, "Show %s overlay: %v", kind, err)
		return ""
	}
	c.overlays = append(c.overlays, h)
	return h
}

// dismiss removes the overlay *h points at and clears it.
func (c *implController) dismiss(h *overlay.Handle) {
	if *h == "" {
		return
	}
	ctx, cancel := c.uiContext()
	defer cancel()
	if err := c.presenter.Dismiss(ctx, *h); err != nil {
		c.logger.Warn(ctx, "Dismiss overlay %s: %v", *h, err)
	}
	c.forget(*h)
	*h = ""
}

// forget drops h from tracking after the page removed it on its own.
func (c *implController) forget(h overlay.Handle) {
	for i, o := range c.overlays {
		if o == h {
			c.overlays = append(c.overlays[:i], c.overlays[i+1:]...)
			break
		}
	}
	for _, p := range []*overlay.Handle{&c.indicator, &c.loading, &c.summary} {
		if *p == h {
			*p = ""
		}
	}
}

func (c *implController) disconnectStale(sub page.Subscription) {
	ctx, cancel := c.uiContext()
	defer cancel()
	if err := sub.Disconnect(ctx); err != nil {
		c.logger.Warn(ctx, "Disconnect stale observer: %v", err)
	}
}
