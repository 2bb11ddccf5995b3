package summarizer

import "context"

// Summarizer turns a captured transcript into a ranked topical summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (*Result, error)
}

// Abstractor writes a short narrative abstract of a transcript.
type Abstractor interface {
	Abstract(ctx context.Context, transcript string) (string, error)
}

// Entry is one ranked category or concept.
type Entry struct {
	Label     string
	Relevance float64
}

// Result is the outcome of one summary request.
type Result struct {
	Categories []Entry
	Concepts   []Entry
	// Text is the formatted summary shown in the panel.
	Text string
	// Abstract is optional and never part of Text.
	Abstract string
}
