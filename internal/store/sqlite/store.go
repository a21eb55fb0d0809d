// Package sqlite provides a SQLite-backed tracker store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/gorewood/dash/internal/output"
	"github.com/gorewood/dash/internal/store/sqlite/migrations"
	"github.com/gorewood/dash/internal/tracker"
)

// FileName is the database file name inside the data directory.
const FileName = "dash.db"

const metaCurrentProject = "current_project"

// Store persists tracker state and events in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ tracker.Store = (*Store)(nil)

func toNanos(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixNano()
}

func fromNanos(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.Unix(0, value).UTC()
}

// Open opens the SQLite store at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load reads the current project and every project row.
func (s *Store) Load(ctx context.Context) (tracker.State, error) {
	if err := ctx.Err(); err != nil {
		return tracker.State{}, err
	}

	var state tracker.State
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE key = ?", metaCurrentProject,
	).Scan(&state.CurrentProject)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return tracker.State{}, output.NewSystemErrorWithCause("failed to read current project", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT name, last_phase, active, started_at FROM projects ORDER BY name")
	if err != nil {
		return tracker.State{}, output.NewSystemErrorWithCause("failed to read projects", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			name      string
			ps        tracker.ProjectState
			startedAt int64
		)
		if err := rows.Scan(&name, &ps.LastPhase, &ps.Active, &startedAt); err != nil {
			return tracker.State{}, output.NewSystemErrorWithCause("failed to scan project", err)
		}
		ps.StartedAt = fromNanos(startedAt)
		if state.Projects == nil {
			state.Projects = make(map[string]tracker.ProjectState)
		}
		state.Projects[name] = ps
	}
	if err := rows.Err(); err != nil {
		return tracker.State{}, output.NewSystemErrorWithCause("failed to read projects", err)
	}
	return state, nil
}

// Commit appends events and replaces the state in a single transaction.
func (s *Store) Commit(ctx context.Context, state tracker.State, events []tracker.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return output.NewSystemErrorWithCause("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, ev := range events {
		if !ev.Valid() {
			return output.NewSystemError(fmt.Sprintf("refusing to log incomplete event %+v", ev))
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO events (id, project, phase, kind, at) VALUES (?, ?, ?, ?, ?)",
			ev.ID, ev.Project, ev.Phase, string(ev.Kind), toNanos(ev.At),
		); err != nil {
			if isUniqueViolation(err) {
				return output.NewSystemErrorWithCause("duplicate event id "+ev.ID, err)
			}
			return output.NewSystemErrorWithCause("failed to append event", err)
		}
	}

	if state.CurrentProject == "" {
		_, err = tx.ExecContext(ctx, "DELETE FROM meta WHERE key = ?", metaCurrentProject)
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			metaCurrentProject, state.CurrentProject)
	}
	if err != nil {
		return output.NewSystemErrorWithCause("failed to save current project", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM projects"); err != nil {
		return output.NewSystemErrorWithCause("failed to save projects", err)
	}
	for name, ps := range state.Projects {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO projects (name, last_phase, active, started_at) VALUES (?, ?, ?, ?)",
			name, ps.LastPhase, ps.Active, toNanos(ps.StartedAt),
		); err != nil {
			return output.NewSystemErrorWithCause("failed to save project "+name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return output.NewSystemErrorWithCause("failed to commit transaction", err)
	}
	return nil
}

// Events returns the log in insertion order. Each range runs a fresh query
// and streams rows as they are scanned.
func (s *Store) Events(ctx context.Context) iter.Seq2[tracker.Event, error] {
	return func(yield func(tracker.Event, error) bool) {
		rows, err := s.sqlDB.QueryContext(ctx,
			"SELECT id, project, phase, kind, at FROM events ORDER BY seq")
		if err != nil {
			yield(tracker.Event{}, output.NewSystemErrorWithCause("failed to query events", err))
			return
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var (
				ev   tracker.Event
				kind string
				at   int64
			)
			if err := rows.Scan(&ev.ID, &ev.Project, &ev.Phase, &kind, &at); err != nil {
				yield(tracker.Event{}, output.NewSystemErrorWithCause("failed to scan event", err))
				return
			}
			ev.Kind = tracker.Kind(kind)
			ev.At = fromNanos(at)
			if !yield(ev, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(tracker.Event{}, output.NewSystemErrorWithCause("failed to read events", err))
		}
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
