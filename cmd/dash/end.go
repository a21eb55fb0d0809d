package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/dash/internal/export"
	"github.com/gorewood/dash/internal/tracker"
)

// newEndCmd creates the end command.
func newEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the running phase",
		Long: `End the phase that is running in the current project.

Fails with a conflict (exit code 3) when nothing is running.

Examples:
  dash end          # Stop working
  dash end --json   # Output the ended phase as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEnd(cmd)
		},
	}
}

// runEnd executes the end command.
func runEnd(cmd *cobra.Command) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.tracker.End(cmd.Context())
	if err != nil {
		return a.fail(err)
	}

	if a.printer.IsJSON() {
		return a.printer.Success(map[string]any{
			"project":          res.Project,
			"phase":            res.Ended,
			"ended_at":         res.Events[0].At,
			"delta":            export.FormatDelta(res.EndedAfter),
			"duration_seconds": int64(res.EndedAfter / time.Second),
		})
	}
	return a.printer.Success(map[string]any{"message": endMessage(res)})
}

// endMessage describes a finished phase for human output.
func endMessage(res tracker.Transition) string {
	return fmt.Sprintf("Ended %s after %s", res.Ended, export.FormatDelta(res.EndedAfter))
}
