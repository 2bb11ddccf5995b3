// Package mcp exposes the tab commands as MCP tools for automation clients.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nguyentantai21042004/caption-digest/internal/bridge"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

var toolRegistry = map[string]toolEntry{
	"check_tab": {
		def: mcp.NewTool("check_tab",
			mcp.WithDescription("Report whether the most recently active tab is a video watch page."),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCheckTab },
	},
	"start_summary": {
		def: mcp.NewTool("start_summary",
			mcp.WithDescription("Start recording captions on the active tab, or stop and summarize if a recording is running."),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStartSummary },
	},
	"session_status": {
		def: mcp.NewTool("session_status",
			mcp.WithDescription("Return the recording state and session id of the active tab."),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStatus },
	},
}

// ToolNames returns the registered tool names.
func ToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates an MCP server whose tools act on the registry's active tab.
func NewServer(table *bridge.Table, tabs TabSource, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"caption-digest",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(table, tabs)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run serves MCP over stdio until stdin closes.
func Run(table *bridge.Table, tabs TabSource, version string) error {
	return server.ServeStdio(NewServer(table, tabs, version))
}
