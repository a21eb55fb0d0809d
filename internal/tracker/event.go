// Package tracker implements the dash session tracker: the per-project phase
// state machine and the append-only event log it produces.
package tracker

import (
	"strings"
	"time"
)

// Kind identifies whether an event opens or closes a phase.
type Kind string

// Event kinds.
const (
	KindStart Kind = "START"
	KindEnd   Kind = "END"
)

// Event is an immutable record in the log.
type Event struct {
	ID      string    `json:"id"`
	Project string    `json:"project"`
	Phase   string    `json:"phase"`
	Kind    Kind      `json:"kind"`
	At      time.Time `json:"at"`
}

// Valid reports whether the event carries every field the log requires.
func (e Event) Valid() bool {
	if e.Project == "" || e.Phase == "" || e.At.IsZero() {
		return false
	}
	return e.Kind == KindStart || e.Kind == KindEnd
}

// ProjectState is the persisted state of one project.
// LastPhase is the phase of the most recent START; Active reports whether
// it is still running and StartedAt when it began.
type ProjectState struct {
	LastPhase string    `yaml:"last_phase,omitempty" json:"last_phase,omitempty"`
	Active    bool      `yaml:"active,omitempty"     json:"active,omitempty"`
	StartedAt time.Time `yaml:"started_at,omitempty" json:"started_at,omitempty"`
}

// State is everything a dash invocation needs besides the log itself.
type State struct {
	CurrentProject string                  `yaml:"current_project,omitempty" json:"current_project,omitempty"`
	Projects       map[string]ProjectState `yaml:"projects,omitempty"        json:"projects,omitempty"`
}

// Project returns the state of the named project and whether it is known.
func (s State) Project(name string) (ProjectState, bool) {
	ps, ok := s.Projects[name]
	return ps, ok
}

// clone returns a copy whose project map can be modified freely.
func (s State) clone() State {
	next := State{
		CurrentProject: s.CurrentProject,
		Projects:       make(map[string]ProjectState, len(s.Projects)+1),
	}
	for name, ps := range s.Projects {
		next.Projects[name] = ps
	}
	return next
}

// normalizeName trims surrounding whitespace from a project or phase name.
func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
