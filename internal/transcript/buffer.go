// Package transcript turns caption mutations into an ordered transcript.
package transcript

import (
	"strings"
	"sync"
)

// Buffer is an append-only transcript owned by one capture. Once frozen it ignores appends.
type Buffer struct {
	mu        sync.Mutex
	sb        strings.Builder
	last      string
	fragments int
	frozen    bool
	dedupe    bool
}

// NewBuffer returns an empty buffer. With dedupe set, a fragment identical to the
// one appended just before it is dropped.
func NewBuffer(dedupe bool) *Buffer {
	return &Buffer{dedupe: dedupe}
}

// Append adds the trimmed fragment followed by one space. Empty fragments are skipped.
func (b *Buffer) Append(fragment string) bool {
	text := strings.TrimSpace(fragment)
	if text == "" {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frozen {
		return false
	}
	if b.dedupe && b.fragments > 0 && text == b.last {
		return false
	}
	b.sb.WriteString(text)
	b.sb.WriteByte(' ')
	b.last = text
	b.fragments++
	return true
}

// Freeze makes the buffer read-only.
func (b *Buffer) Freeze() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frozen = true
}

// Frozen reports whether Freeze was called.
func (b *Buffer) Frozen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frozen
}

// String returns the transcript including the trailing space after the last fragment.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

// Fragments returns the number of appended fragments.
func (b *Buffer) Fragments() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fragments
}

// Empty reports whether nothing but whitespace was captured.
func (b *Buffer) Empty() bool {
	return strings.TrimSpace(b.String()) == ""
}
