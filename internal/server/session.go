package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/bridge"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/recorder"
	"github.com/nguyentantai21042004/caption-digest/internal/tab"
)

const urlBacklog = 16

// tabSession is the daemon side of one connected tab.
type tabSession struct {
	id       string
	ctrl     recorder.Controller
	table    *bridge.Table
	registry *Registry
	urls     chan string
	logger   logger.Logger

	mu         sync.Mutex
	url        string
	lastActive time.Time // guarded by registry.mu
}

func (s *tabSession) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

func (s *tabSession) Controller() recorder.Controller {
	return s.ctrl
}

// transitioned keeps a tab whose session is moving on its own (timeout, summary result)
// the target of commands that name no tab.
func (s *tabSession) transitioned(from, to recorder.State) {
	s.registry.touch(s)
}

// HandleEvent implements tab.Handler.
func (s *tabSession) HandleEvent(ctx context.Context, op string, params json.RawMessage) {
	switch op {
	case tab.EventHello, tab.EventNavigated:
		var p tab.URLParams
		if err := json.Unmarshal(params, &p); err != nil {
			s.logger.Warn(ctx, "Bad %s event: %v", op, err)
			return
		}
		s.mu.Lock()
		s.url = p.URL
		s.mu.Unlock()
		s.registry.touch(s)

		select {
		case s.urls <- p.URL:
		default:
			s.logger.Warn(ctx, "Navigation backlog full, dropped %s", p.URL)
		}

	case tab.EventOverlayAction:
		var p tab.ActionParams
		if err := json.Unmarshal(params, &p); err != nil {
			s.logger.Warn(ctx, "Bad %s event: %v", op, err)
			return
		}
		go func() {
			if err := s.ctrl.HandleAction(ctx, p.Handle, p.Action); err != nil {
				s.logger.Warn(ctx, "Overlay action %s: %v", p.Action, err)
			}
		}()

	default:
		s.logger.Debug(ctx, "Ignoring event %s", op)
	}
}

// HandleCall implements tab.Handler. Commands sent from a tab apply to that tab.
func (s *tabSession) HandleCall(ctx context.Context, op string, params json.RawMessage) (any, error) {
	s.registry.touch(s)
	if op != tab.OpCommand {
		return nil, fmt.Errorf("unknown op %s", op)
	}
	return s.table.Handle(ctx, params, s)
}
