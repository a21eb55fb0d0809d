package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/dash/internal/export"
	"github.com/gorewood/dash/internal/tracker"
)

// newStartCmd creates the start command.
func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start [phase]",
		Short: "Start a phase, or resume the last one",
		Long: `Start working on a phase of the current project.

Without a phase, resume the phase that was started last. Starting a
different phase while one is running ends the running one first; starting
the running phase again does nothing.

Examples:
  dash start design    # Start (or switch to) the design phase
  dash start           # Resume the last phase
  dash start --json    # Output the result as JSON`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd, args)
		},
	}
}

// runStart executes the start command.
func runStart(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	phase := ""
	if len(args) == 1 {
		if strings.TrimSpace(args[0]) == "" {
			return a.fail(tracker.InvalidArgument("phase is empty; omit it to resume the last phase"))
		}
		phase = args[0]
	}

	res, err := a.tracker.Start(cmd.Context(), phase)
	if err != nil {
		return a.fail(err)
	}

	startedAt := res.State.Projects[res.Project].StartedAt
	if a.printer.IsJSON() {
		data := map[string]any{
			"project":    res.Project,
			"phase":      res.Phase,
			"started":    !res.Noop,
			"started_at": startedAt,
		}
		if res.Ended != "" {
			data["ended"] = res.Ended
			data["ended_after"] = export.FormatDelta(res.EndedAfter)
		}
		return a.printer.Success(data)
	}

	styles := a.printer.Styles()
	switch {
	case res.Noop:
		a.printer.Print("Already working on %s (%s) since %s\n",
			styles.Active.Render(res.Phase), res.Project,
			startedAt.Local().Format(a.settings.TimeFormat))
	case res.Ended != "":
		a.printer.Println(endMessage(res))
		a.printer.Print("Started %s (%s)\n", styles.Active.Render(res.Phase), res.Project)
	default:
		a.printer.Print("Started %s (%s)\n", styles.Active.Render(res.Phase), res.Project)
	}
	return nil
}
