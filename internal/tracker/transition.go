package tracker

import (
	"time"
	"unicode/utf8"
)

// Transition is the outcome of applying one command to a State.
// Events are in log order and carry no IDs yet; the Tracker stamps them.
type Transition struct {
	State   State
	Events  []Event
	Project string
	Phase   string

	// Ended is the phase closed by this command, if any, and EndedAfter
	// how long it had been running.
	Ended      string
	EndedAfter time.Duration
	// Noop is set when the command left the state unchanged.
	Noop bool
	// Created is set by SetProject when the project did not exist before.
	Created bool
}

// SetProject makes name the current project, registering it if needed.
func SetProject(s State, name string) (Transition, error) {
	name = normalizeName(name)
	if name == "" {
		return Transition{State: s}, InvalidArgument("project name is empty")
	}
	if !utf8.ValidString(name) {
		return Transition{State: s}, InvalidArgument("project name %q is not valid UTF-8", name)
	}

	next := s.clone()
	_, known := next.Projects[name]
	if !known {
		next.Projects[name] = ProjectState{}
	}
	next.CurrentProject = name

	return Transition{
		State:   next,
		Project: name,
		Created: !known,
		Noop:    known && s.CurrentProject == name,
	}, nil
}

// Start opens phase in the current project. An empty phase resumes the
// project's most recent phase. Starting the phase that is already active
// does nothing; starting a different one ends the active phase first.
func Start(s State, phase string, now time.Time) (Transition, error) {
	project := s.CurrentProject
	if project == "" {
		return Transition{State: s}, ErrNoCurrentProject
	}

	ps := s.Projects[project]
	phase = normalizeName(phase)
	if !utf8.ValidString(phase) {
		return Transition{State: s, Project: project}, InvalidArgument("phase name %q is not valid UTF-8", phase)
	}
	if phase == "" {
		if ps.LastPhase == "" {
			return Transition{State: s, Project: project}, ErrNoPriorPhase
		}
		phase = ps.LastPhase
	}

	if ps.Active && ps.LastPhase == phase {
		return Transition{State: s, Project: project, Phase: phase, Noop: true}, nil
	}

	next := s.clone()
	tr := Transition{Project: project, Phase: phase}
	if ps.Active {
		tr.Ended = ps.LastPhase
		tr.EndedAfter = now.Sub(ps.StartedAt)
		tr.Events = append(tr.Events, Event{Project: project, Phase: ps.LastPhase, Kind: KindEnd, At: now})
	}
	tr.Events = append(tr.Events, Event{Project: project, Phase: phase, Kind: KindStart, At: now})

	next.Projects[project] = ProjectState{LastPhase: phase, Active: true, StartedAt: now}
	tr.State = next
	return tr, nil
}

// End closes the active phase of the current project.
func End(s State, now time.Time) (Transition, error) {
	project := s.CurrentProject
	if project == "" {
		return Transition{State: s}, ErrNoCurrentProject
	}

	ps := s.Projects[project]
	if !ps.Active {
		return Transition{State: s, Project: project}, ErrNoActivePhase
	}

	next := s.clone()
	next.Projects[project] = ProjectState{LastPhase: ps.LastPhase}

	return Transition{
		State:      next,
		Project:    project,
		Phase:      ps.LastPhase,
		Ended:      ps.LastPhase,
		EndedAfter: now.Sub(ps.StartedAt),
		Events:     []Event{{Project: project, Phase: ps.LastPhase, Kind: KindEnd, At: now}},
	}, nil
}

// Replay folds logged events into s. A START makes its phase the active one;
// an END leaves the project idle on that phase. Replaying events that s
// already reflects leaves it unchanged, so a store may replay a log suffix
// without knowing exactly where its state stopped.
func Replay(s State, events ...Event) State {
	if len(events) == 0 {
		return s
	}
	next := s.clone()
	for _, ev := range events {
		switch ev.Kind {
		case KindStart:
			next.Projects[ev.Project] = ProjectState{LastPhase: ev.Phase, Active: true, StartedAt: ev.At}
		case KindEnd:
			next.Projects[ev.Project] = ProjectState{LastPhase: ev.Phase}
		}
		if next.CurrentProject == "" {
			next.CurrentProject = ev.Project
		}
	}
	return next
}
