package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/dash/internal/export"
	"github.com/gorewood/dash/internal/tracker"
)

// StatusInput is the input for the status tool (no parameters needed).
type StatusInput struct{}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	Project   string     `json:"project,omitempty"    jsonschema:"current project, empty if none is set"`
	Phase     string     `json:"phase,omitempty"      jsonschema:"active phase, or the last phase when idle"`
	Active    bool       `json:"active"               jsonschema:"true while a phase is running"`
	StartedAt *time.Time `json:"started_at,omitempty" jsonschema:"when the active phase began"`
	Elapsed   string     `json:"elapsed,omitempty"    jsonschema:"time in the active phase as H:MM"`
	Projects  []string   `json:"projects"             jsonschema:"all known projects"`
}

func handleStatus(tr *tracker.Tracker) mcp.ToolHandlerFor[StatusInput, StatusOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
		st, err := tr.Status(ctx)
		if err != nil {
			return nil, StatusOutput{}, toolError(err)
		}

		out := StatusOutput{
			Project:  st.Project,
			Phase:    st.Phase,
			Active:   st.Active,
			Projects: st.Projects,
		}
		if st.Active {
			started := st.StartedAt
			out.StartedAt = &started
			out.Elapsed = export.FormatDelta(st.Elapsed)
		}
		return nil, out, nil
	}
}
