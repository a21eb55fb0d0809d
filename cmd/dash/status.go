package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/dash/internal/export"
	"github.com/gorewood/dash/internal/tracker"
)

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current project and what is running",
		Long: `Show the current project, its running or last phase, and how long
the running phase has been going.

Examples:
  dash status          # Show human-readable status
  dash status --json   # Output status as JSON for scripting`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd)
		},
	}
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	st, err := a.tracker.Status(cmd.Context())
	if err != nil {
		return a.fail(err)
	}

	if a.printer.IsJSON() {
		data := map[string]any{
			"project":  st.Project,
			"phase":    st.Phase,
			"active":   st.Active,
			"projects": st.Projects,
			"store":    a.settings.Store,
			"data_dir": a.settings.Dir,
		}
		if st.Active {
			data["started_at"] = st.StartedAt
			data["elapsed"] = export.FormatDelta(st.Elapsed)
			data["elapsed_seconds"] = int64(st.Elapsed / time.Second)
		}
		return a.printer.Success(data)
	}

	printHumanStatus(a, st)
	return nil
}

// printHumanStatus outputs status in human-readable format.
func printHumanStatus(a *app, st tracker.Status) {
	p := a.printer
	if st.Project == "" {
		p.Println("Current project not set")
		p.Stderr("Run 'dash project <name>' to pick one.\n")
		return
	}

	p.Section("Project")
	p.KeyValue("Project", st.Project)
	switch {
	case st.Active:
		p.KeyValue("Phase", p.Styles().Active.Render(st.Phase))
		p.KeyValue("Since", st.StartedAt.Local().Format(a.settings.TimeFormat))
		p.KeyValue("Elapsed", export.FormatDelta(st.Elapsed))
	case st.Phase != "":
		p.KeyValue("Phase", st.Phase+" (idle)")
	default:
		p.KeyValue("Phase", "none yet")
	}

	if len(st.Projects) > 1 {
		p.Section("Projects")
		p.Println(strings.Join(st.Projects, ", "))
	}
}
