package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/dash/internal/export"
	"github.com/gorewood/dash/internal/tracker"
)

// --- Project tool ---

// ProjectInput is the input for the project tool.
type ProjectInput struct {
	Name string `json:"name" jsonschema:"project name (required)"`
}

// ProjectOutput is the output for the project tool.
type ProjectOutput struct {
	Project string `json:"project" jsonschema:"the current project"`
	Created bool   `json:"created" jsonschema:"true if the project did not exist before"`
	Changed bool   `json:"changed" jsonschema:"false if it was already the current project"`
}

func handleProject(tr *tracker.Tracker) mcp.ToolHandlerFor[ProjectInput, ProjectOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ProjectInput) (*mcp.CallToolResult, ProjectOutput, error) {
		res, err := tr.SetProject(ctx, input.Name)
		if err != nil {
			return nil, ProjectOutput{}, toolError(err)
		}
		return nil, ProjectOutput{
			Project: res.Project,
			Created: res.Created,
			Changed: !res.Noop,
		}, nil
	}
}

// --- Start tool ---

// StartInput is the input for the start tool.
type StartInput struct {
	Phase *string `json:"phase,omitempty" jsonschema:"phase to start; omit to resume the most recent phase"`
}

// StartOutput is the output for the start tool.
type StartOutput struct {
	Project   string    `json:"project"         jsonschema:"current project"`
	Phase     string    `json:"phase"           jsonschema:"the phase now running"`
	Started   bool      `json:"started"         jsonschema:"false if the phase was already running"`
	Ended     string    `json:"ended,omitempty" jsonschema:"phase that was ended by switching"`
	StartedAt time.Time `json:"started_at"      jsonschema:"when the running phase began"`
}

func handleStart(tr *tracker.Tracker) mcp.ToolHandlerFor[StartInput, StartOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StartInput) (*mcp.CallToolResult, StartOutput, error) {
		phase := ""
		if input.Phase != nil {
			if strings.TrimSpace(*input.Phase) == "" {
				return nil, StartOutput{}, toolError(tracker.InvalidArgument("phase is empty; omit it to resume"))
			}
			phase = *input.Phase
		}

		res, err := tr.Start(ctx, phase)
		if err != nil {
			return nil, StartOutput{}, toolError(err)
		}
		return nil, StartOutput{
			Project:   res.Project,
			Phase:     res.Phase,
			Started:   !res.Noop,
			Ended:     res.Ended,
			StartedAt: res.State.Projects[res.Project].StartedAt,
		}, nil
	}
}

// --- End tool ---

// EndInput is the input for the end tool (no parameters needed).
type EndInput struct{}

// EndOutput is the output for the end tool.
type EndOutput struct {
	Project string    `json:"project"  jsonschema:"current project"`
	Phase   string    `json:"phase"    jsonschema:"the phase that was ended"`
	EndedAt time.Time `json:"ended_at" jsonschema:"when the phase ended"`
	Delta   string    `json:"delta"    jsonschema:"session length as H:MM"`
}

func handleEnd(tr *tracker.Tracker) mcp.ToolHandlerFor[EndInput, EndOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ EndInput) (*mcp.CallToolResult, EndOutput, error) {
		res, err := tr.End(ctx)
		if err != nil {
			return nil, EndOutput{}, toolError(err)
		}
		return nil, endOutput(res), nil
	}
}

// endOutput builds the end tool's result from a transition.
func endOutput(res tracker.Transition) EndOutput {
	out := EndOutput{
		Project: res.Project,
		Phase:   res.Ended,
		Delta:   export.FormatDelta(res.EndedAfter),
	}
	if len(res.Events) > 0 {
		out.EndedAt = res.Events[0].At
	}
	return out
}
