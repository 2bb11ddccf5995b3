package server

import (
	"sync"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/bridge"
)

// Registry tracks connected tabs. Commands without an explicit tab go to the tab that
// was active most recently.
type Registry struct {
	mu   sync.Mutex
	tabs map[string]*tabSession
	now  func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		tabs: make(map[string]*tabSession),
		now:  time.Now,
	}
}

func (r *Registry) add(s *tabSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.lastActive = r.now()
	r.tabs[s.id] = s
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tabs, id)
}

func (r *Registry) touch(s *tabSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tabs[s.id]; ok {
		s.lastActive = r.now()
	}
}

// Active returns the most recently active tab, or nil when none is connected.
func (r *Registry) Active() bridge.Target {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *tabSession
	for _, s := range r.tabs {
		if best == nil || s.lastActive.After(best.lastActive) {
			best = s
		}
	}
	if best == nil {
		return nil
	}
	return best
}

// Len returns the number of connected tabs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tabs)
}
