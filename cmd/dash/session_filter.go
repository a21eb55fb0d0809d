package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/dash/internal/timerange"
	"github.com/gorewood/dash/internal/tracker"
)

// filterFlags are the selection flags shared by log and export.
type filterFlags struct {
	all   bool
	since string
	until string
	last  int
}

// register adds the filter flags to cmd. withLast controls whether --last is offered.
func (f *filterFlags) register(cmd *cobra.Command, withLast bool) {
	cmd.Flags().BoolVar(&f.all, "all", false, "Include every project, not just the current one")
	cmd.Flags().StringVar(&f.since, "since", "", "Only sessions started since duration (24h, 7d, 2w) or date (2026-01-17)")
	cmd.Flags().StringVar(&f.until, "until", "", "Only sessions started until duration (24h, 7d, 2w) or date (2026-01-17)")
	if withLast {
		cmd.Flags().IntVar(&f.last, "last", 0, "Show only the last N sessions")
	}
}

// build resolves the flags into a session filter. Without --all the
// current project must be set.
func (f *filterFlags) build(ctx context.Context, tr *tracker.Tracker) (tracker.SessionFilter, error) {
	if f.last < 0 {
		return tracker.SessionFilter{}, tracker.InvalidArgument("--last must not be negative")
	}
	filter := tracker.SessionFilter{Last: f.last}

	if !f.all {
		project, err := tr.CurrentProject(ctx)
		if err != nil {
			return tracker.SessionFilter{}, err
		}
		filter.Project = project
	}

	now := tr.Now().Local()
	if f.since != "" {
		since, err := timerange.Since(f.since, now)
		if err != nil {
			return tracker.SessionFilter{}, fmt.Errorf("%w: %w", tracker.ErrInvalidArgument, err)
		}
		filter.Since = since
	}
	if f.until != "" {
		until, err := timerange.Until(f.until, now)
		if err != nil {
			return tracker.SessionFilter{}, fmt.Errorf("%w: %w", tracker.ErrInvalidArgument, err)
		}
		filter.Until = until
	}
	return filter, nil
}
