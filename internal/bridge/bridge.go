// Package bridge answers the commands the extension popup (and the MCP tools) send.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nguyentantai21042004/caption-digest/internal/errors"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/navigation"
	"github.com/nguyentantai21042004/caption-digest/internal/recorder"
)

// Command names.
const (
	CheckTab     = "checkTab"
	StartSummary = "startSummary"
	Status       = "status"
)

// Request is the command envelope sent by the popup.
type Request struct {
	Action string `json:"action"`
}

type CheckTabResponse struct {
	IsYouTube bool `json:"isYouTube"`
}

type StartSummaryResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type StatusResponse struct {
	State     string `json:"state"`
	SessionID string `json:"sessionId,omitempty"`
}

// Target is the tab a command applies to.
type Target interface {
	URL() string
	Controller() recorder.Controller
}

// Table dispatches commands by name.
type Table struct {
	handlers map[string]func(ctx context.Context, t Target) (any, error)
	logger   logger.Logger
}

// New builds the command table.
func New(log logger.Logger) *Table {
	tb := &Table{logger: log}
	tb.handlers = map[string]func(ctx context.Context, t Target) (any, error){
		CheckTab:     tb.checkTab,
		StartSummary: tb.startSummary,
		Status:       tb.status,
	}
	return tb
}

// Handle decodes a raw command and runs it against t. t may be nil when no tab is connected.
func (tb *Table) Handle(ctx context.Context, raw json.RawMessage, t Target) (any, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	return tb.Dispatch(ctx, req.Action, t)
}

// Dispatch runs the named command against t.
func (tb *Table) Dispatch(ctx context.Context, action string, t Target) (any, error) {
	h, ok := tb.handlers[action]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", action)
	}
	return h(ctx, t)
}

func (tb *Table) checkTab(ctx context.Context, t Target) (any, error) {
	if t == nil {
		return CheckTabResponse{}, nil
	}
	return CheckTabResponse{IsYouTube: navigation.Qualifies(t.URL())}, nil
}

// startSummary reports success as soon as the transition is initiated.
func (tb *Table) startSummary(ctx context.Context, t Target) (any, error) {
	if t == nil {
		return StartSummaryResponse{Error: "no tab connected"}, nil
	}
	ok, err := t.Controller().Toggle(ctx)
	if err != nil {
		tb.logger.Warn(ctx, "startSummary: %v", err)
		resp := StartSummaryResponse{Error: err.Error()}
		if d := errors.CodeOf(err); d != "" {
			resp.Error = string(d)
		}
		return resp, nil
	}
	return StartSummaryResponse{Success: ok}, nil
}

func (tb *Table) status(ctx context.Context, t Target) (any, error) {
	if t == nil {
		return StatusResponse{State: recorder.Idle.String()}, nil
	}
	st := t.Controller().Status()
	return StatusResponse{State: st.State.String(), SessionID: st.SessionID}, nil
}
