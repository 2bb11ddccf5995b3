package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nguyentantai21042004/caption-digest/internal/bridge"
)

// TabSource yields the tab commands apply to.
type TabSource interface {
	Active() bridge.Target
}

// Handlers runs bridge commands on behalf of MCP tool calls.
type Handlers struct {
	table *bridge.Table
	tabs  TabSource
}

func NewHandlers(table *bridge.Table, tabs TabSource) *Handlers {
	return &Handlers{table: table, tabs: tabs}
}

func (h *Handlers) HandleCheckTab(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.run(ctx, bridge.CheckTab)
}

func (h *Handlers) HandleStartSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.run(ctx, bridge.StartSummary)
}

func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.run(ctx, bridge.Status)
}

func (h *Handlers) run(ctx context.Context, command string) (*mcp.CallToolResult, error) {
	resp, err := h.table.Dispatch(ctx, command, h.tabs.Active())
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(resp)
}

// errorResult creates an MCP error result with a JSON error payload.
func errorResult(err error) *mcp.CallToolResult {
	content, _ := json.Marshal(map[string]any{
		"error": map[string]any{"message": err.Error()},
	})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
