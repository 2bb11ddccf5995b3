package navigation

import (
	"context"
	"sync"
	"time"
)

// Run resets and re-initializes on every change to a new watch page. The first URL is
// the page load itself and initializes without delay. Only one initialization is
// pending at a time; a newer navigation cancels it.
func (w *implWatcher) Run(ctx context.Context, urls <-chan string) error {
	var (
		wg         sync.WaitGroup
		last       string
		first      = true
		cancelInit context.CancelFunc = func() {}
	)
	defer func() {
		cancelInit()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-urls:
			if !ok {
				return nil
			}
			if !first && u == last {
				continue
			}
			initial := first
			first = false
			last = u
			if !Qualifies(u) {
				w.logger.Debug(ctx, "Navigated to non-watch page %s", u)
				continue
			}

			cancelInit()
			delay := w.delay
			if initial {
				delay = 0
			} else {
				w.logger.Info(ctx, "Navigation to %s, resetting", u)
				w.resetter.Reset(ctx)
			}

			ictx, cancel := context.WithCancel(ctx)
			cancelInit = cancel
			wg.Add(1)
			go func(pageURL string) {
				defer wg.Done()
				w.initialize(ictx, pageURL, delay)
			}(u)
		}
	}
}

func (w *implWatcher) initialize(ctx context.Context, pageURL string, delay time.Duration) {
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}

	if err := w.init.Process(ctx, pageURL); err != nil && ctx.Err() == nil {
		w.logger.Warn(ctx, "Initialize %s: %v", pageURL, err)
	}
}
