// Package tab speaks the per-tab socket protocol. A Conn is both the page.Document and
// the overlay.Presenter for one browser tab.
package tab

import (
	"encoding/json"

	"github.com/nguyentantai21042004/caption-digest/internal/overlay"
	"github.com/nguyentantai21042004/caption-digest/internal/page"
)

// Envelope kinds.
const (
	KindCall   = "call"
	KindResult = "result"
	KindEvent  = "event"
)

// Ops the daemon calls on the page.
const (
	OpQuery          = "query"
	OpClick          = "click"
	OpObserve        = "observe"
	OpDisconnect     = "disconnect"
	OpMediaPause     = "media.pause"
	OpMediaPlay      = "media.play"
	OpOverlayShow    = "overlay.show"
	OpOverlayDismiss = "overlay.dismiss"
)

// Ops the page sends to the daemon.
const (
	EventHello         = "hello"
	EventNavigated     = "navigated"
	EventMutations     = "mutations"
	EventOverlayAction = "overlay.action"
	// OpCommand is a call carrying a bridge command, e.g. {"action":"startSummary"}.
	OpCommand = "command"
)

// Envelope is one socket message in either direction.
type Envelope struct {
	Kind   string          `json:"kind"`
	ID     string          `json:"id,omitempty"`
	Op     string          `json:"op,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type queryParams struct {
	Selector string `json:"selector"`
}

type queryResult struct {
	Found   bool         `json:"found"`
	Element page.Element `json:"element"`
}

type refParams struct {
	Ref string `json:"ref"`
}

type observeResult struct {
	Subscription string `json:"subscription"`
}

type disconnectParams struct {
	Subscription string `json:"subscription"`
}

type showParams struct {
	Kind    overlay.Kind    `json:"kind"`
	Payload overlay.Payload `json:"payload"`
}

type showResult struct {
	Handle overlay.Handle `json:"handle"`
}

type dismissParams struct {
	Handle overlay.Handle `json:"handle"`
}

// URLParams is the payload of hello and navigated events.
type URLParams struct {
	URL string `json:"url"`
}

// MutationParams is the payload of a mutations event.
type MutationParams struct {
	Subscription string        `json:"subscription"`
	Records      []page.Record `json:"records"`
}

// ActionParams is the payload of an overlay.action event.
type ActionParams struct {
	Handle overlay.Handle `json:"handle"`
	Action string         `json:"action"`
}
