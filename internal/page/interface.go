// Package page describes the browser page the daemon drives through a tab connection.
// Everything the recording pipeline knows about the DOM goes through these interfaces.
package page

import (
	"context"
	"slices"
)

// NodeType mirrors the DOM nodeType values the capture cares about.
type NodeType int

const (
	ElementNode NodeType = 1
	TextNode    NodeType = 3
	CommentNode NodeType = 8
)

// RecordKind is the kind of a mutation record.
type RecordKind string

const (
	RecordCharacterData RecordKind = "characterData"
	RecordChildList     RecordKind = "childList"
	// RecordDetached is emitted once when the observed element leaves the document.
	RecordDetached RecordKind = "detached"
	// RecordOverflow is the last record of a subscription whose transport dropped
	// batches because the consumer fell behind.
	RecordOverflow RecordKind = "overflow"
)

// Node is an inserted node, flattened to its type and trimmed-or-not text content.
type Node struct {
	Type NodeType `json:"nodeType"`
	Text string   `json:"text"`
}

// Record is one mutation record. Text is the target's textContent for
// characterData records; Added lists inserted nodes for childList records.
type Record struct {
	Kind  RecordKind `json:"kind"`
	Text  string     `json:"text,omitempty"`
	Added []Node     `json:"added,omitempty"`
}

// Element is an opaque reference to a DOM element plus its class list at query time.
type Element struct {
	Ref     string   `json:"ref"`
	Classes []string `json:"classes,omitempty"`
}

// HasClass reports whether the element carried class c when it was queried.
func (e Element) HasClass(c string) bool {
	return slices.Contains(e.Classes, c)
}

// Subscription is a live mutation observer. Records delivers batches in arrival
// order and is closed once the observer is gone.
type Subscription interface {
	Records() <-chan []Record
	Disconnect(ctx context.Context) error
}

// Video controls a media element.
type Video interface {
	Pause(ctx context.Context) error
	Play(ctx context.Context) error
}

// Document is the page as seen by the pipeline.
type Document interface {
	// Query returns the first element matching selector; ok is false when nothing matches.
	Query(ctx context.Context, selector string) (el Element, ok bool, err error)
	Click(ctx context.Context, el Element) error
	// Observe subscribes to childList and characterData mutations in el's subtree.
	Observe(ctx context.Context, el Element) (Subscription, error)
	// Media wraps el as a media element.
	Media(el Element) Video
}
