package transcript

import (
	"context"
	"sync"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/page"
)

// Reason tells why a capture ended.
type Reason int

const (
	ReasonStopped Reason = iota
	ReasonTimeout
	ReasonDetached
	ReasonClosed
	// ReasonOverflow means the transport dropped batches; the buffer is incomplete.
	ReasonOverflow
)

func (r Reason) String() string {
	switch r {
	case ReasonStopped:
		return "stopped"
	case ReasonTimeout:
		return "timeout"
	case ReasonDetached:
		return "detached"
	case ReasonClosed:
		return "closed"
	case ReasonOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

const disconnectTimeout = 5 * time.Second

// Capture streams one subscription into one buffer.
type Capture struct {
	sub    page.Subscription
	buf    *Buffer
	onDone func(Reason)

	stopOnce       sync.Once
	disconnectOnce sync.Once
	stopCh         chan struct{}
	done           chan struct{}
	reason         Reason
	disconnectErr  error
}

// Start begins consuming sub into buf. The capture ends after duration, when the caption
// source detaches, when the subscription closes or overflows, or on Stop. onDone runs for
// every ending except Stop and ctx cancellation, after the buffer is frozen.
func Start(ctx context.Context, sub page.Subscription, buf *Buffer, duration time.Duration, onDone func(Reason)) *Capture {
	c := &Capture{
		sub:    sub,
		buf:    buf,
		onDone: onDone,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go c.run(ctx, duration)
	return c
}

func (c *Capture) run(ctx context.Context, duration time.Duration) {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	reason := ReasonStopped
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-c.stopCh:
			break loop
		case <-timer.C:
			reason = ReasonTimeout
			break loop
		case batch, ok := <-c.sub.Records():
			if !ok {
				reason = ReasonClosed
				break loop
			}
			if r, ended := c.apply(batch); ended {
				reason = r
				break loop
			}
		}
	}

	if reason == ReasonStopped || reason == ReasonTimeout {
		reason = c.drain(reason)
	}

	c.disconnect(ctx)
	c.buf.Freeze()
	c.reason = reason
	close(c.done)

	if reason != ReasonStopped && c.onDone != nil {
		c.onDone(reason)
	}
}

// drain applies batches already delivered when the capture was asked to end, so a stop
// keeps text the page reported before it. Only an overflow found while draining
// replaces reason.
func (c *Capture) drain(reason Reason) Reason {
	for {
		select {
		case batch, ok := <-c.sub.Records():
			if !ok {
				return reason
			}
			if r, ended := c.apply(batch); ended {
				if r == ReasonOverflow {
					return r
				}
				return reason
			}
		default:
			return reason
		}
	}
}

// apply appends every fragment in batch and reports whether a record ended the capture.
func (c *Capture) apply(batch []page.Record) (Reason, bool) {
	for _, rec := range batch {
		switch rec.Kind {
		case page.RecordCharacterData:
			c.buf.Append(rec.Text)
		case page.RecordChildList:
			for _, n := range rec.Added {
				if n.Type == page.TextNode || n.Type == page.ElementNode {
					c.buf.Append(n.Text)
				}
			}
		case page.RecordDetached:
			return ReasonDetached, true
		case page.RecordOverflow:
			return ReasonOverflow, true
		}
	}
	return 0, false
}

func (c *Capture) disconnect(ctx context.Context) {
	c.disconnectOnce.Do(func() {
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), disconnectTimeout)
		defer cancel()
		c.disconnectErr = c.sub.Disconnect(dctx)
	})
}

// Stop ends the capture and waits until the observer is disconnected and the buffer frozen.
// Safe to call more than once.
func (c *Capture) Stop() error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	<-c.done
	return c.disconnectErr
}

// Done is closed once the capture has ended.
func (c *Capture) Done() <-chan struct{} {
	return c.done
}

// Reason returns why the capture ended. Only meaningful after Done is closed.
func (c *Capture) Reason() Reason {
	<-c.done
	return c.reason
}

// Buffer returns the buffer this capture writes to.
func (c *Capture) Buffer() *Buffer {
	return c.buf
}
