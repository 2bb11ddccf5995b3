// Package overlay describes the panels the daemon draws on top of the video page.
package overlay

import "context"

// Kind is the overlay surface type.
type Kind string

const (
	KindIndicator    Kind = "indicator"
	KindLoading      Kind = "loading"
	KindCapturedText Kind = "captured-text"
	KindSummary      Kind = "summary"
	KindError        Kind = "error"
)

// Handle identifies one shown overlay.
type Handle string

// Action is a button on an overlay. Clicking it is reported back as an overlay.action event.
type Action struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Action IDs the page can report.
const (
	ActionDismiss = "dismiss"
	ActionResume  = "resume"
)

// Payload is what an overlay displays. HTML, when set, is the rendered form of Text.
type Payload struct {
	Title   string   `json:"title,omitempty"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
	Actions []Action `json:"actions,omitempty"`
}

// Presenter shows and removes overlays. Kinds are not mutually exclusive; every overlay
// stays until dismissed. Dismissing an unknown handle is a no-op.
type Presenter interface {
	Show(ctx context.Context, kind Kind, p Payload) (Handle, error)
	Dismiss(ctx context.Context, h Handle) error
}
