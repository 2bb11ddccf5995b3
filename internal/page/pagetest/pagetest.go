// Package pagetest provides an in-memory page.Document for tests.
package pagetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/nguyentantai21042004/caption-digest/internal/page"
)

// Document is a scriptable fake. All methods are safe for concurrent use.
type Document struct {
	mu        sync.Mutex
	elements  map[string]page.Element
	onClick   map[string]func(d *Document)
	queries   map[string]int
	clicks    []string
	subs      []*Subscription
	videos    map[string]*Video

	QueryHook func(selector string)
	// ObserveHook runs before Observe creates the subscription.
	ObserveHook func(el page.Element)
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		elements: make(map[string]page.Element),
		onClick:  make(map[string]func(d *Document)),
		queries:  make(map[string]int),
		videos:   make(map[string]*Video),
	}
}

// Set makes selector resolve to an element with the given ref and classes.
func (d *Document) Set(selector, ref string, classes ...string) page.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := page.Element{Ref: ref, Classes: classes}
	d.elements[selector] = el
	return el
}

// Remove makes selector stop matching.
func (d *Document) Remove(selector string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, selector)
}

// OnClick registers fn to run when the element with ref is clicked.
func (d *Document) OnClick(ref string, fn func(d *Document)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onClick[ref] = fn
}

// Query implements page.Document.
func (d *Document) Query(ctx context.Context, selector string) (page.Element, bool, error) {
	if err := ctx.Err(); err != nil {
		return page.Element{}, false, err
	}
	d.mu.Lock()
	d.queries[selector]++
	el, ok := d.elements[selector]
	hook := d.QueryHook
	d.mu.Unlock()
	if hook != nil {
		hook(selector)
	}
	return el, ok, nil
}

// Queries returns how many times selector was queried.
func (d *Document) Queries(selector string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queries[selector]
}

// Click implements page.Document.
func (d *Document) Click(ctx context.Context, el page.Element) error {
	d.mu.Lock()
	d.clicks = append(d.clicks, el.Ref)
	fn := d.onClick[el.Ref]
	d.mu.Unlock()
	if fn != nil {
		fn(d)
	}
	return nil
}

// Clicks returns the refs clicked so far, in order.
func (d *Document) Clicks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clicks...)
}

// Observe implements page.Document.
func (d *Document) Observe(ctx context.Context, el page.Element) (page.Subscription, error) {
	if el.Ref == "" {
		return nil, fmt.Errorf("observe: empty element ref")
	}
	d.mu.Lock()
	hook := d.ObserveHook
	d.mu.Unlock()
	if hook != nil {
		hook(el)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	sub := &Subscription{
		Target: el,
		ch:     make(chan []page.Record, 64),
	}
	d.subs = append(d.subs, sub)
	return sub, nil
}

// Subscriptions returns every subscription created so far.
func (d *Document) Subscriptions() []*Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Subscription(nil), d.subs...)
}

// Live returns the number of subscriptions not yet disconnected.
func (d *Document) Live() int {
	d.mu.Lock()
	subs := append([]*Subscription(nil), d.subs...)
	d.mu.Unlock()
	n := 0
	for _, s := range subs {
		if s.Disconnects() == 0 {
			n++
		}
	}
	return n
}

// Media implements page.Document.
func (d *Document) Media(el page.Element) page.Video {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.videos[el.Ref]
	if !ok {
		v = &Video{}
		d.videos[el.Ref] = v
	}
	return v
}

// Subscription is a fake observer fed through Push.
type Subscription struct {
	Target page.Element

	mu          sync.Mutex
	ch          chan []page.Record
	disconnects int
	closed      bool
}

// Records implements page.Subscription.
func (s *Subscription) Records() <-chan []page.Record {
	return s.ch
}

// Push delivers one batch. It is dropped once the subscription is closed.
func (s *Subscription) Push(batch ...page.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.ch <- batch
}

// Close ends the subscription from the page side, as when the observer is garbage collected.
// Batches pushed before Close are still delivered.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Disconnect implements page.Subscription.
func (s *Subscription) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnects++
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	return nil
}

// Disconnects returns how many times Disconnect was called.
func (s *Subscription) Disconnects() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnects
}

// Video counts media calls.
type Video struct {
	mu     sync.Mutex
	pauses int
	plays  int
}

func (v *Video) Pause(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pauses++
	return nil
}

func (v *Video) Play(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.plays++
	return nil
}

// Pauses returns the number of Pause calls.
func (v *Video) Pauses() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pauses
}

// Plays returns the number of Play calls.
func (v *Video) Plays() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.plays
}

// Text is a characterData record.
func Text(s string) page.Record {
	return page.Record{Kind: page.RecordCharacterData, Text: s}
}

// Added is a childList record inserting text nodes.
func Added(texts ...string) page.Record {
	nodes := make([]page.Node, 0, len(texts))
	for _, t := range texts {
		nodes = append(nodes, page.Node{Type: page.TextNode, Text: t})
	}
	return page.Record{Kind: page.RecordChildList, Added: nodes}
}

// Overflow is the record a transport sends after dropping batches.
func Overflow() page.Record {
	return page.Record{Kind: page.RecordOverflow}
}

// Detached is the detachment record.
func Detached() page.Record {
	return page.Record{Kind: page.RecordDetached}
}
