package navigation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

type fakeResetter struct {
	mu     sync.Mutex
	resets int
}

func (r *fakeResetter) Reset(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
}

func (r *fakeResetter) Resets() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resets
}

type fakeInit struct {
	mu        sync.Mutex
	processed []string
	cancelled int
	block     bool
}

func (f *fakeInit) Process(ctx context.Context, pageURL string) error {
	if f.block {
		<-ctx.Done()
		f.mu.Lock()
		f.cancelled++
		f.mu.Unlock()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed = append(f.processed, pageURL)
	return nil
}

func (f *fakeInit) Processed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.processed...)
}

func (f *fakeInit) Cancelled() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

func start(t *testing.T, w Watcher) (chan string, func()) {
	t.Helper()
	urls := make(chan string)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, urls)
	}()
	return urls, func() {
		cancel()
		<-done
	}
}

func TestQualifies(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=abc", true},
		{"https://m.youtube.com/watch?v=abc&t=10", true},
		{"https://www.youtube.com/", false},
		{"https://www.youtube.com/shorts/abc", false},
		{"https://vimeo.com/watch", false},
	}

	for _, tt := range tests {
		if got := Qualifies(tt.url); got != tt.want {
			t.Errorf("Qualifies(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestRun_InitialLoadInitializesWithoutReset(t *testing.T) {
	r, init := &fakeResetter{}, &fakeInit{}
	urls, stop := start(t, New(r, init, time.Hour, logger.Nop()))
	defer stop()

	urls <- "https://www.youtube.com/watch?v=a"

	require.Eventually(t, func() bool { return len(init.Processed()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, r.Resets())
}

func TestRun_NavigationResetsThenReinitializes(t *testing.T) {
	r, init := &fakeResetter{}, &fakeInit{}
	urls, stop := start(t, New(r, init, 30*time.Millisecond, logger.Nop()))
	defer stop()

	urls <- "https://www.youtube.com/watch?v=a"
	urls <- "https://www.youtube.com/watch?v=b"

	require.Eventually(t, func() bool { return len(init.Processed()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, r.Resets())
	assert.Equal(t, "https://www.youtube.com/watch?v=b", init.Processed()[1])
}

func TestRun_IgnoresRepeatsAndNonWatchPages(t *testing.T) {
	r, init := &fakeResetter{}, &fakeInit{}
	urls, stop := start(t, New(r, init, 10*time.Millisecond, logger.Nop()))
	defer stop()

	urls <- "https://www.youtube.com/watch?v=a"
	urls <- "https://www.youtube.com/watch?v=a"
	urls <- "https://www.youtube.com/feed/subscriptions"
	urls <- "https://www.youtube.com/feed/subscriptions"

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, r.Resets())
	assert.Equal(t, []string{"https://www.youtube.com/watch?v=a"}, init.Processed())

	// Coming back to the same video is a change from the feed page.
	urls <- "https://www.youtube.com/watch?v=a"
	require.Eventually(t, func() bool { return r.Resets() == 1 }, time.Second, 5*time.Millisecond)
}

func TestRun_NewNavigationCancelsPendingInit(t *testing.T) {
	r, init := &fakeResetter{}, &fakeInit{block: true}
	urls, stop := start(t, New(r, init, time.Millisecond, logger.Nop()))

	urls <- "https://www.youtube.com/watch?v=a"
	urls <- "https://www.youtube.com/watch?v=b"
	urls <- "https://www.youtube.com/watch?v=c"

	require.Eventually(t, func() bool { return init.Cancelled() >= 1 }, time.Second, 5*time.Millisecond)
	stop()
	assert.Equal(t, 2, r.Resets())
	assert.LessOrEqual(t, init.Cancelled(), 3)
}
