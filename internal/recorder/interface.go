// Package recorder runs the per-tab recording session: resolve captions, capture them,
// hand the transcript to the summarizer, and keep the overlays in step.
package recorder

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/overlay"
	"github.com/nguyentantai21042004/caption-digest/internal/page"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// State is the controller state.
type State int

const (
	Idle State = iota
	ResolvingCaptions
	Capturing
	Finalizing
	Summarizing
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ResolvingCaptions:
		return "resolving_captions"
	case Capturing:
		return "capturing"
	case Finalizing:
		return "finalizing"
	case Summarizing:
		return "summarizing"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Session is one start-to-summary run.
type Session struct {
	ID        string
	State     State
	StartedAt time.Time
	Video     page.Video
	Source    page.Element
	Buffer    *transcript.Buffer

	ctx     context.Context
	cancel  context.CancelFunc
	capture *transcript.Capture
}

// Status is a snapshot for the status command. SessionID is empty when idle.
type Status struct {
	State     State
	SessionID string
}

// TransitionFunc observes every state change. It runs with the controller lock held
// and must not call back into the controller.
type TransitionFunc func(from, to State)

// Controller is the recording state machine for one tab.
type Controller interface {
	// Arm records the video element found by the readiness monitor.
	Arm(video page.Video)
	// Toggle starts a session from Idle and stops it otherwise. It returns once the
	// transition is initiated; ok is false when the start was rejected.
	Toggle(ctx context.Context) (ok bool, err error)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	// Reset abandons any session, removes every overlay and forgets the video.
	Reset(ctx context.Context)
	// Resume plays the video and closes the summary panel.
	Resume(ctx context.Context) error
	// HandleAction applies an overlay button click reported by the page.
	HandleAction(ctx context.Context, h overlay.Handle, action string) error
	Status() Status
	OnTransition(fn TransitionFunc)
}

// Options tune capture behaviour.
type Options struct {
	Duration        time.Duration
	DedupeRepeats   bool
	PreviewMaxChars int
}
