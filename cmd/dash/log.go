package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/dash/internal/export"
	"github.com/gorewood/dash/internal/tracker"
)

// newLogCmd creates the log command.
func newLogCmd() *cobra.Command {
	var filters filterFlags
	var eventsFlag bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the work log",
		Long: `Print the sessions of the current project in start order, one row per
started phase with its start, end and duration (H:MM). A running phase has
an empty end and is measured up to now.

Examples:
  dash log                  # Sessions of the current project
  dash log --all            # Sessions of every project
  dash log --since 7d       # Sessions started in the last week
  dash log --last 5         # The five most recent sessions
  dash log --events         # The raw START/END event log
  dash log --json           # Output sessions as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if eventsFlag {
				return runLogEvents(cmd, &filters)
			}
			return runLog(cmd, &filters)
		},
	}

	filters.register(cmd, true)
	cmd.Flags().BoolVar(&eventsFlag, "events", false, "Print raw events instead of sessions")

	return cmd
}

// runLog prints sessions as a table.
func runLog(cmd *cobra.Command, filters *filterFlags) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	filter, err := filters.build(cmd.Context(), a.tracker)
	if err != nil {
		return a.fail(err)
	}
	sessions, err := a.tracker.Sessions(cmd.Context(), filter)
	if err != nil {
		return a.fail(err)
	}

	now := a.tracker.Now()
	total := export.FormatDelta(tracker.TotalDuration(sessions, now))

	if a.printer.IsJSON() {
		data := map[string]any{
			"count":    len(sessions),
			"total":    total,
			"sessions": export.Records(sessions, now),
		}
		if filter.Project != "" {
			data["project"] = filter.Project
		}
		return a.printer.Success(data)
	}

	if len(sessions) == 0 {
		a.printer.Println("No sessions.")
		return nil
	}

	headers := []string{"PHASE", "START", "END", "DELTA"}
	if filters.all {
		headers = append([]string{"PROJECT"}, headers...)
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		end := ""
		if s.End != nil {
			end = s.End.Local().Format(a.settings.TimeFormat)
		}
		row := []string{s.Phase, s.Start.Local().Format(a.settings.TimeFormat), end, export.FormatDelta(s.Duration(now))}
		if filters.all {
			row = append([]string{s.Project}, row...)
		}
		rows = append(rows, row)
	}
	a.printer.Table(headers, rows)
	a.printer.Print("%s %s\n", a.printer.Styles().Muted.Render("Total:"), total)
	return nil
}

// runLogEvents prints the raw event log.
func runLogEvents(cmd *cobra.Command, filters *filterFlags) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	filter, err := filters.build(cmd.Context(), a.tracker)
	if err != nil {
		return a.fail(err)
	}

	var events []tracker.Event
	for ev, err := range a.tracker.Log(cmd.Context()) {
		if err != nil {
			return a.fail(err)
		}
		if eventMatches(ev, filter) {
			events = append(events, ev)
		}
	}
	if filter.Last > 0 && len(events) > filter.Last {
		events = events[len(events)-filter.Last:]
	}

	if a.printer.IsJSON() {
		if events == nil {
			events = []tracker.Event{}
		}
		return a.printer.WriteJSON(events)
	}

	if len(events) == 0 {
		a.printer.Println("No events.")
		return nil
	}
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{ev.At.Local().Format(a.settings.TimeFormat), string(ev.Kind), ev.Project, ev.Phase})
	}
	a.printer.Table([]string{"AT", "KIND", "PROJECT", "PHASE"}, rows)
	return nil
}

// eventMatches reports whether ev passes the project and time criteria of f.
func eventMatches(ev tracker.Event, f tracker.SessionFilter) bool {
	if f.Project != "" && ev.Project != f.Project {
		return false
	}
	if !f.Since.IsZero() && ev.At.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && ev.At.After(f.Until) {
		return false
	}
	return true
}
