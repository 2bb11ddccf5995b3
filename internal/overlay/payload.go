package overlay

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in captions is dropped by goldmark's default (unsafe off) renderer.
var md = goldmark.New(goldmark.WithRendererOptions(gmhtml.WithHardWraps()))

var dismissAction = Action{ID: ActionDismiss, Label: "×"}

// RenderHTML converts plain panel text to HTML, keeping line breaks.
func RenderHTML(text string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "<p>" + html.EscapeString(text) + "</p>"
	}
	return buf.String()
}

// PlainHTML escapes caption text for display, keeping line breaks. Captions are never
// read as Markdown.
func PlainHTML(text string) string {
	return "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br>\n") + "</p>"
}

// Indicator is the "recording" badge.
func Indicator() Payload {
	return Payload{Text: "Recording for summary...", Actions: []Action{dismissAction}}
}

// Loading is shown while the summary is generated.
func Loading() Payload {
	return Payload{Text: "Generating summary...", Actions: []Action{dismissAction}}
}

// CapturedText previews the transcript. Only the display is truncated to maxChars runes;
// zero means no limit.
func CapturedText(transcript string, maxChars int) Payload {
	text := Truncate(transcript, maxChars)
	return Payload{
		Title:   "Captured Text",
		Text:    text,
		HTML:    PlainHTML(text),
		Actions: []Action{dismissAction},
	}
}

// Summary is the result panel. abstract is appended after the fixed summary text when set.
func Summary(text, abstract string) Payload {
	body := text
	if abstract != "" {
		body += "\n📝 Abstract:\n" + abstract + "\n"
	}
	return Payload{
		Title: "Video Summary",
		Text:  body,
		HTML:  RenderHTML(body),
		Actions: []Action{
			{ID: ActionResume, Label: "Resume Video"},
			dismissAction,
		},
	}
}

// Error shows msg as-is.
func Error(msg string) Payload {
	return Payload{Title: "Error", Text: msg, Actions: []Action{dismissAction}}
}

// Truncate cuts s to max runes and marks the cut with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
