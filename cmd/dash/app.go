package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gorewood/dash/internal/config"
	"github.com/gorewood/dash/internal/output"
	"github.com/gorewood/dash/internal/store"
	"github.com/gorewood/dash/internal/store/sqlite"
	"github.com/gorewood/dash/internal/tracker"
)

// app holds what a command needs once configuration has been resolved.
type app struct {
	settings *config.Settings
	printer  *output.Printer
	store    tracker.Store
	tracker  *tracker.Tracker
}

// openApp loads settings, builds the printer and opens the configured store.
// Failures are printed before they are returned.
func openApp(cmd *cobra.Command) (*app, error) {
	settings, err := config.Load()
	if err != nil {
		printer := newPrinter(cmd, output.ColorAuto)
		printer.Error(err)
		return nil, err
	}

	mode := settings.Color
	if flagMode := colorFlag(cmd); flagMode != "" {
		parsed, parseErr := output.ParseColorMode(flagMode)
		if parseErr != nil {
			err := output.NewUserErrorWithCause(parseErr.Error(), parseErr)
			newPrinter(cmd, output.ColorAuto).Error(err)
			return nil, err
		}
		mode = parsed
	}
	printer := newPrinter(cmd, mode)

	st, err := openStore(cmd.Context(), settings)
	if err != nil {
		printer.Error(err)
		return nil, err
	}

	return &app{
		settings: settings,
		printer:  printer,
		store:    st,
		tracker:  tracker.New(st, nil, nil),
	}, nil
}

// Close releases the store.
func (a *app) Close() {
	_ = a.store.Close()
}

// fail classifies err, prints it and returns it for the exit code.
func (a *app) fail(err error) error {
	exitErr := classify(err)
	a.printer.Error(exitErr)
	return exitErr
}

// newPrinter creates a printer on the command's writers for the given color mode.
func newPrinter(cmd *cobra.Command, colorMode string) *output.Printer {
	color := output.ResolveColorMode(colorMode, output.IsTTY(cmd.OutOrStdout()))
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), color).WithStderr(cmd.ErrOrStderr())
}

// openStore opens the backend named by settings.Store in the data directory.
func openStore(ctx context.Context, settings *config.Settings) (tracker.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	switch settings.Store {
	case config.StoreSQLite:
		if err := os.MkdirAll(settings.Dir, 0o755); err != nil {
			return nil, output.NewSystemErrorWithCause("failed to create data directory", err)
		}
		db, err := sqlite.Open(ctx, filepath.Join(settings.Dir, sqlite.FileName))
		if err != nil {
			return nil, output.NewSystemErrorWithCause("failed to open database: "+err.Error(), err)
		}
		return db, nil
	default:
		return store.New(settings.Dir), nil
	}
}

// classify maps an error to an ExitError. Tracker errors carry their kind:
// NoActivePhase is a state conflict, the other kinds are user errors.
// Errors that already carry an exit code keep it; anything else is a system error.
func classify(err error) *output.ExitError {
	if kind := tracker.ErrorKind(err); kind != "" {
		if kind == tracker.KindNoActivePhase {
			return output.NewConflictErrorWithCause(err.Error(), err).WithKind(kind)
		}
		return output.NewUserErrorWithCause(err.Error(), err).WithKind(kind)
	}

	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return output.NewSystemErrorWithCause(err.Error(), err)
}
