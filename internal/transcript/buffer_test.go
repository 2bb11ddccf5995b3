package transcript

import "testing"

func TestBufferAppend(t *testing.T) {
	tests := []struct {
		name      string
		dedupe    bool
		fragments []string
		want      string
	}{
		{"keeps order", false, []string{"hello", "world"}, "hello world "},
		{"trims", false, []string{"  hello\n", "\tworld "}, "hello world "},
		{"skips blank", false, []string{"hello", "   ", ""}, "hello "},
		{"keeps duplicates by default", false, []string{"same", "same", "same"}, "same same same "},
		{"dedupe drops consecutive repeats", true, []string{"same", "same", "other", "same"}, "same other same "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.dedupe)
			for _, f := range tt.fragments {
				b.Append(f)
			}
			if got := b.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBufferFreeze(t *testing.T) {
	b := NewBuffer(false)
	b.Append("before")
	b.Freeze()

	if b.Append("after") {
		t.Error("Append() after Freeze returned true")
	}
	if got := b.String(); got != "before " {
		t.Errorf("String() = %q, want %q", got, "before ")
	}
	if !b.Frozen() {
		t.Error("Frozen() = false, want true")
	}
}

func TestBufferEmpty(t *testing.T) {
	b := NewBuffer(false)
	if !b.Empty() {
		t.Error("new buffer should be empty")
	}
	b.Append(" \n ")
	if !b.Empty() {
		t.Error("whitespace-only buffer should be empty")
	}
	b.Append("x")
	if b.Empty() {
		t.Error("buffer with text should not be empty")
	}
	if b.Fragments() != 1 {
		t.Errorf("Fragments() = %d, want 1", b.Fragments())
	}
}
