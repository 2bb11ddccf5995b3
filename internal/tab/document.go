package tab

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/nguyentantai21042004/caption-digest/internal/overlay"
	"github.com/nguyentantai21042004/caption-digest/internal/page"
)

// Query implements page.Document.
func (c *Conn) Query(ctx context.Context, selector string) (page.Element, bool, error) {
	var res queryResult
	if err := c.call(ctx, OpQuery, queryParams{Selector: selector}, &res); err != nil {
		return page.Element{}, false, err
	}
	return res.Element, res.Found, nil
}

// Click implements page.Document.
func (c *Conn) Click(ctx context.Context, el page.Element) error {
	return c.call(ctx, OpClick, refParams{Ref: el.Ref}, nil)
}

// Observe implements page.Document.
func (c *Conn) Observe(ctx context.Context, el page.Element) (page.Subscription, error) {
	var res observeResult
	if err := c.call(ctx, OpObserve, refParams{Ref: el.Ref}, &res); err != nil {
		return nil, err
	}
	if res.Subscription == "" {
		return nil, fmt.Errorf("observe %s: empty subscription id", el.Ref)
	}

	sub := &subscription{
		id:   res.Subscription,
		conn: c,
		ch:   make(chan []page.Record, recordBuffer+1),
	}
	c.mu.Lock()
	select {
	case <-c.closed:
		c.mu.Unlock()
		sub.close()
		return sub, nil
	default:
	}
	c.subs[sub.id] = sub
	c.mu.Unlock()
	return sub, nil
}

// Media implements page.Document.
func (c *Conn) Media(el page.Element) page.Video {
	return &video{conn: c, ref: el.Ref}
}

// Show implements overlay.Presenter.
func (c *Conn) Show(ctx context.Context, kind overlay.Kind, p overlay.Payload) (overlay.Handle, error) {
	var res showResult
	if err := c.call(ctx, OpOverlayShow, showParams{Kind: kind, Payload: p}, &res); err != nil {
		return "", err
	}
	return res.Handle, nil
}

// Dismiss implements overlay.Presenter.
func (c *Conn) Dismiss(ctx context.Context, h overlay.Handle) error {
	return c.call(ctx, OpOverlayDismiss, dismissParams{Handle: h}, nil)
}

type video struct {
	conn *Conn
	ref  string
}

func (v *video) Pause(ctx context.Context) error {
	return v.conn.call(ctx, OpMediaPause, refParams{Ref: v.ref}, nil)
}

func (v *video) Play(ctx context.Context) error {
	return v.conn.call(ctx, OpMediaPlay, refParams{Ref: v.ref}, nil)
}

type subscription struct {
	id   string
	conn *Conn

	mu     sync.Mutex
	ch     chan []page.Record
	closed bool
}

func (s *subscription) Records() <-chan []page.Record {
	return s.ch
}

// Disconnect stops the page-side observer. A connection that is already gone counts as
// disconnected.
func (s *subscription) Disconnect(ctx context.Context) error {
	s.conn.mu.Lock()
	delete(s.conn.subs, s.id)
	s.conn.mu.Unlock()
	s.close()

	err := s.conn.call(ctx, OpDisconnect, disconnectParams{Subscription: s.id}, nil)
	if stderrors.Is(err, ErrClosed) {
		return nil
	}
	return err
}

// push queues one batch without blocking the read loop. When the consumer is
// recordBuffer batches behind, the batch is dropped, the reserved last slot carries an
// overflow record and the subscription closes. It reports false on overflow.
func (s *subscription) push(records []page.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	if len(s.ch) < recordBuffer {
		s.ch <- records
		return true
	}
	s.ch <- []page.Record{{Kind: page.RecordOverflow}}
	s.closed = true
	close(s.ch)
	return false
}

func (s *subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
