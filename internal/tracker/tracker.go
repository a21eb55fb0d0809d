package tracker

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Store persists the tracker state and its event log.
//
// Commit appends events to the log and replaces the state. Events returns a
// finite sequence that re-reads the log each time it is ranged over.
type Store interface {
	Load(ctx context.Context) (State, error)
	Commit(ctx context.Context, state State, events []Event) error
	Events(ctx context.Context) iter.Seq2[Event, error]
	Close() error
}

// Tracker applies commands against a Store.
type Tracker struct {
	store Store
	now   func() time.Time
	newID func() string
}

// New creates a Tracker backed by store.
// If now is nil, uses time.Now. If newID is nil, uses random UUIDs.
func New(store Store, now func() time.Time, newID func() string) *Tracker {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &Tracker{store: store, now: now, newID: newID}
}

// Now returns the tracker's current time in UTC.
func (t *Tracker) Now() time.Time {
	return t.now().UTC()
}

// SetProject makes name the current project.
func (t *Tracker) SetProject(ctx context.Context, name string) (Transition, error) {
	return t.apply(ctx, func(s State) (Transition, error) {
		return SetProject(s, name)
	})
}

// Start starts or resumes a phase of the current project.
func (t *Tracker) Start(ctx context.Context, phase string) (Transition, error) {
	now := t.Now()
	return t.apply(ctx, func(s State) (Transition, error) {
		return Start(s, phase, now)
	})
}

// End ends the active phase of the current project.
func (t *Tracker) End(ctx context.Context) (Transition, error) {
	now := t.Now()
	return t.apply(ctx, func(s State) (Transition, error) {
		return End(s, now)
	})
}

// apply loads the state, runs fn, stamps event IDs and commits the result.
func (t *Tracker) apply(ctx context.Context, fn func(State) (Transition, error)) (Transition, error) {
	state, err := t.store.Load(ctx)
	if err != nil {
		return Transition{}, fmt.Errorf("loading state: %w", err)
	}

	tr, err := fn(state)
	if err != nil {
		return tr, err
	}
	if tr.Noop {
		return tr, nil
	}

	for i := range tr.Events {
		tr.Events[i].ID = t.newID()
	}
	if err := t.store.Commit(ctx, tr.State, tr.Events); err != nil {
		return Transition{}, fmt.Errorf("saving state: %w", err)
	}
	return tr, nil
}

// Status describes the current project and what it is doing.
type Status struct {
	Project   string        `json:"project,omitempty"`
	Phase     string        `json:"phase,omitempty"`
	Active    bool          `json:"active"`
	StartedAt time.Time     `json:"started_at,omitzero"`
	Elapsed   time.Duration `json:"elapsed"`
	Projects  []string      `json:"projects"`
}

// Status reports the current project and its active or last phase.
func (t *Tracker) Status(ctx context.Context) (Status, error) {
	state, err := t.store.Load(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("loading state: %w", err)
	}

	st := Status{Project: state.CurrentProject, Projects: projectNames(state)}
	if ps, ok := state.Project(state.CurrentProject); ok {
		st.Phase = ps.LastPhase
		st.Active = ps.Active
		if ps.Active {
			st.StartedAt = ps.StartedAt
			st.Elapsed = t.Now().Sub(ps.StartedAt)
		}
	}
	return st, nil
}

// CurrentProject returns the current project name, or ErrNoCurrentProject.
func (t *Tracker) CurrentProject(ctx context.Context) (string, error) {
	state, err := t.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("loading state: %w", err)
	}
	if state.CurrentProject == "" {
		return "", ErrNoCurrentProject
	}
	return state.CurrentProject, nil
}

// Log returns the event log in chronological order. The sequence is
// read-only and can be ranged over any number of times.
func (t *Tracker) Log(ctx context.Context) iter.Seq2[Event, error] {
	return t.store.Events(ctx)
}

// Sessions folds the log into sessions and applies f.
func (t *Tracker) Sessions(ctx context.Context, f SessionFilter) ([]Session, error) {
	sessions, err := Sessions(t.Log(ctx))
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	return FilterSessions(sessions, f), nil
}

// projectNames returns the known project names in sorted order.
func projectNames(s State) []string {
	names := make([]string, 0, len(s.Projects))
	for name := range s.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
