package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/dash/internal/export"
	"github.com/gorewood/dash/internal/timerange"
	"github.com/gorewood/dash/internal/tracker"
)

// LogInput is the input for the log tool.
type LogInput struct {
	All   bool   `json:"all,omitempty"   jsonschema:"include every project, not just the current one"`
	Last  int    `json:"last,omitempty"  jsonschema:"keep only the last N sessions"`
	Since string `json:"since,omitempty" jsonschema:"sessions started since duration (24h, 7d) or ISO date"`
	Until string `json:"until,omitempty" jsonschema:"sessions started until duration (24h, 7d) or ISO date"`
}

// LogOutput is the output for the log tool.
type LogOutput struct {
	Project  string          `json:"project,omitempty" jsonschema:"project the log is for; empty with all"`
	Count    int             `json:"count"             jsonschema:"number of sessions returned"`
	Total    string          `json:"total"             jsonschema:"summed duration as H:MM"`
	Sessions []export.Record `json:"sessions"          jsonschema:"sessions in start order"`
}

func handleLog(tr *tracker.Tracker) mcp.ToolHandlerFor[LogInput, LogOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LogInput) (*mcp.CallToolResult, LogOutput, error) {
		filter, err := logFilter(ctx, tr, input)
		if err != nil {
			return nil, LogOutput{}, toolError(err)
		}

		sessions, err := tr.Sessions(ctx, filter)
		if err != nil {
			return nil, LogOutput{}, toolError(err)
		}

		now := tr.Now()
		return nil, LogOutput{
			Project:  filter.Project,
			Count:    len(sessions),
			Total:    export.FormatDelta(tracker.TotalDuration(sessions, now)),
			Sessions: export.Records(sessions, now),
		}, nil
	}
}

// logFilter builds the session filter for input, resolving the current
// project unless all projects were requested.
func logFilter(ctx context.Context, tr *tracker.Tracker, input LogInput) (tracker.SessionFilter, error) {
	if input.Last < 0 {
		return tracker.SessionFilter{}, tracker.InvalidArgument("last must not be negative")
	}
	filter := tracker.SessionFilter{Last: input.Last}

	if !input.All {
		project, err := tr.CurrentProject(ctx)
		if err != nil {
			return tracker.SessionFilter{}, err
		}
		filter.Project = project
	}

	// Dates name days on the user's calendar, as they do on the command line.
	now := tr.Now().Local()
	if input.Since != "" {
		since, err := timerange.Since(input.Since, now)
		if err != nil {
			return tracker.SessionFilter{}, fmt.Errorf("%w: %w", tracker.ErrInvalidArgument, err)
		}
		filter.Since = since
	}
	if input.Until != "" {
		until, err := timerange.Until(input.Until, now)
		if err != nil {
			return tracker.SessionFilter{}, fmt.Errorf("%w: %w", tracker.ErrInvalidArgument, err)
		}
		filter.Until = until
	}
	return filter, nil
}
