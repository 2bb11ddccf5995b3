// Package overlaytest provides a recording overlay.Presenter.
package overlaytest

import (
	"context"
	"fmt"
	"sync"

	"github.com/nguyentantai21042004/caption-digest/internal/overlay"
)

// Shown is one Show call.
type Shown struct {
	Handle  overlay.Handle
	Kind    overlay.Kind
	Payload overlay.Payload
}

// Presenter records every call and tracks which overlays are still visible.
type Presenter struct {
	mu        sync.Mutex
	seq       int
	shown     []Shown
	live      map[overlay.Handle]overlay.Kind
	dismissed []overlay.Handle
	ShowErr   error
}

func New() *Presenter {
	return &Presenter{live: make(map[overlay.Handle]overlay.Kind)}
}

func (p *Presenter) Show(ctx context.Context, kind overlay.Kind, payload overlay.Payload) (overlay.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ShowErr != nil {
		return "", p.ShowErr
	}
	p.seq++
	h := overlay.Handle(fmt.Sprintf("ov-%d", p.seq))
	p.shown = append(p.shown, Shown{Handle: h, Kind: kind, Payload: payload})
	p.live[h] = kind
	return h, nil
}

func (p *Presenter) Dismiss(ctx context.Context, h overlay.Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.live[h]; ok {
		delete(p.live, h)
		p.dismissed = append(p.dismissed, h)
	}
	return nil
}

// Shown returns every Show call in order.
func (p *Presenter) Shown() []Shown {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Shown(nil), p.shown...)
}

// Kinds returns the kinds shown so far, in order.
func (p *Presenter) Kinds() []overlay.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]overlay.Kind, 0, len(p.shown))
	for _, s := range p.shown {
		out = append(out, s.Kind)
	}
	return out
}

// Last returns the most recent overlay of kind.
func (p *Presenter) Last(kind overlay.Kind) (Shown, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.shown) - 1; i >= 0; i-- {
		if p.shown[i].Kind == kind {
			return p.shown[i], true
		}
	}
	return Shown{}, false
}

// Live returns how many overlays of kind are still visible.
func (p *Presenter) Live(kind overlay.Kind) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, k := range p.live {
		if k == kind {
			n++
		}
	}
	return n
}

// LiveTotal returns how many overlays are still visible.
func (p *Presenter) LiveTotal() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}
