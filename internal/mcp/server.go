// Package mcp provides a Model Context Protocol server for dash.
// It exposes the tracker's commands and log as MCP tools.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/dash/internal/tracker"
)

// NewServer creates an MCP server with all dash tools registered.
func NewServer(version string, tr *tracker.Tracker) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "dash",
		Version: version,
	}, nil)
	registerTools(server, tr)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for write tools. They only append
// to the log, so they are not destructive.
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all dash tools to the server.
func registerTools(server *mcp.Server, tr *tracker.Tracker) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "project",
		Description: "Set the current project, creating it if it does not exist yet.",
		Annotations: writeAnnotations(),
	}, handleProject(tr))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "start",
		Description: "Start a phase of the current project. Omit phase to resume the most recent one. Starting a different phase ends the running one first.",
		Annotations: writeAnnotations(),
	}, handleStart(tr))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "end",
		Description: "End the running phase of the current project.",
		Annotations: writeAnnotations(),
	}, handleEnd(tr))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Show the current project, its active or last phase, and elapsed time.",
		Annotations: readOnlyAnnotations(),
	}, handleStatus(tr))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log",
		Description: "List work sessions of the current project (or all projects) with start, end and duration. Supports last N and since/until filters.",
		Annotations: readOnlyAnnotations(),
	}, handleLog(tr))
}
