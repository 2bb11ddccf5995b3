package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/nguyentantai21042004/caption-digest/internal/captions"
	"github.com/nguyentantai21042004/caption-digest/internal/navigation"
	"github.com/nguyentantai21042004/caption-digest/internal/processor"
	"github.com/nguyentantai21042004/caption-digest/internal/readiness"
	"github.com/nguyentantai21042004/caption-digest/internal/recorder"
	"github.com/nguyentantai21042004/caption-digest/internal/tab"
)

const shutdownTimeout = 5 * time.Second

// Run serves on the configured address until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(ctx, "Shutdown: %v", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"tabs":   s.registry.Len(),
	})
}

// handleTab upgrades the request and runs one tab's pipeline until the socket closes.
func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "Upgrade failed: %v", err)
		return
	}

	id := ulid.Make().String()
	log := s.logger.With("tab " + id[len(id)-6:])
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn := tab.NewConn(ws, log)
	capture := s.cfg.Capture

	ctrl := recorder.New(
		conn,
		captions.New(conn, capture.CaptionEnableWait, log),
		s.summarizer,
		conn,
		recorder.Options{
			Duration:        capture.Duration,
			DedupeRepeats:   capture.DedupeRepeats,
			PreviewMaxChars: capture.PreviewMaxChars,
		},
		log,
	)
	proc := processor.New(readiness.New(conn, capture.ReadyPollInterval, capture.ReadyMaxPolls, log), ctrl, log)
	nav := navigation.New(ctrl, proc, capture.ReinitDelay, log)

	sess := &tabSession{
		id:       id,
		ctrl:     ctrl,
		table:    s.table,
		registry: s.registry,
		urls:     make(chan string, urlBacklog),
		logger:   log,
	}
	ctrl.OnTransition(sess.transitioned)
	conn.SetHandler(sess)
	s.registry.add(sess)
	log.Info(ctx, "Tab connected from %s", r.RemoteAddr)

	navDone := make(chan struct{})
	go func() {
		defer close(navDone)
		if err := nav.Run(ctx, sess.urls); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn(ctx, "Navigation watcher: %v", err)
		}
	}()

	if err := conn.Run(ctx); err != nil {
		log.Debug(ctx, "Socket closed: %v", err)
	}

	cancel()
	<-navDone
	s.registry.remove(id)
	ctrl.Reset(context.Background())
	log.Info(context.Background(), "Tab disconnected")
}
