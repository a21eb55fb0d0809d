package tracker

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func stateWith(project string, ps ProjectState) State {
	return State{
		CurrentProject: project,
		Projects:       map[string]ProjectState{project: ps},
	}
}

func TestSetProject(t *testing.T) {
	tests := []struct {
		name        string
		state       State
		input       string
		wantProject string
		wantCreated bool
		wantNoop    bool
		wantErr     error
	}{
		{
			name:        "creates unknown project",
			state:       State{},
			input:       "myproject",
			wantProject: "myproject",
			wantCreated: true,
		},
		{
			name:        "switches to known project",
			state:       State{CurrentProject: "a", Projects: map[string]ProjectState{"a": {}, "b": {}}},
			input:       "b",
			wantProject: "b",
		},
		{
			name:        "same project is a noop",
			state:       stateWith("a", ProjectState{}),
			input:       "a",
			wantProject: "a",
			wantNoop:    true,
		},
		{
			name:        "trims whitespace",
			state:       State{},
			input:       "  spaced  ",
			wantProject: "spaced",
			wantCreated: true,
		},
		{name: "rejects empty", state: State{}, input: "", wantErr: ErrInvalidArgument},
		{name: "rejects blank", state: State{}, input: "   ", wantErr: ErrInvalidArgument},
		{name: "rejects invalid UTF-8", state: State{}, input: "proj\xff", wantErr: ErrInvalidArgument},
		{name: "accepts non-ASCII", state: State{}, input: "café", wantProject: "café", wantCreated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := SetProject(tt.state, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr.State.CurrentProject != tt.wantProject {
				t.Errorf("CurrentProject = %q, want %q", tr.State.CurrentProject, tt.wantProject)
			}
			if tr.Created != tt.wantCreated {
				t.Errorf("Created = %v, want %v", tr.Created, tt.wantCreated)
			}
			if tr.Noop != tt.wantNoop {
				t.Errorf("Noop = %v, want %v", tr.Noop, tt.wantNoop)
			}
			if len(tr.Events) != 0 {
				t.Errorf("SetProject emitted %d events, want 0", len(tr.Events))
			}
		})
	}
}

func TestSetProject_KeepsPhaseState(t *testing.T) {
	state := State{
		CurrentProject: "a",
		Projects: map[string]ProjectState{
			"a": {LastPhase: "design", Active: true, StartedAt: t0},
		},
	}
	tr, err := SetProject(state, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tr.State.Projects["a"]; !got.Active || got.LastPhase != "design" {
		t.Errorf("project a state = %+v, want active design", got)
	}
}

func TestStart(t *testing.T) {
	tests := []struct {
		name       string
		state      State
		phase      string
		wantErr    error
		wantNoop   bool
		wantEnded  string
		wantPhase  string
		wantEvents []Kind
	}{
		{
			name:    "no current project",
			state:   State{},
			phase:   "design",
			wantErr: ErrNoCurrentProject,
		},
		{
			name:    "invalid UTF-8 phase",
			state:   stateWith("p", ProjectState{}),
			phase:   "design\xff",
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "resume without prior phase",
			state:   stateWith("p", ProjectState{}),
			wantErr: ErrNoPriorPhase,
		},
		{
			name:       "idle start",
			state:      stateWith("p", ProjectState{}),
			phase:      "design",
			wantPhase:  "design",
			wantEvents: []Kind{KindStart},
		},
		{
			name:       "resume last phase",
			state:      stateWith("p", ProjectState{LastPhase: "design"}),
			wantPhase:  "design",
			wantEvents: []Kind{KindStart},
		},
		{
			name:      "same phase is a noop",
			state:     stateWith("p", ProjectState{LastPhase: "design", Active: true, StartedAt: t0}),
			phase:     "design",
			wantPhase: "design",
			wantNoop:  true,
		},
		{
			name:      "resume while active is a noop",
			state:     stateWith("p", ProjectState{LastPhase: "design", Active: true, StartedAt: t0}),
			wantPhase: "design",
			wantNoop:  true,
		},
		{
			name:       "switch ends previous phase",
			state:      stateWith("p", ProjectState{LastPhase: "design", Active: true, StartedAt: t0}),
			phase:      "code",
			wantPhase:  "code",
			wantEnded:  "design",
			wantEvents: []Kind{KindEnd, KindStart},
		},
	}

	now := t0.Add(time.Hour)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Start(tt.state, tt.phase, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr.Noop != tt.wantNoop {
				t.Errorf("Noop = %v, want %v", tr.Noop, tt.wantNoop)
			}
			if tr.Phase != tt.wantPhase {
				t.Errorf("Phase = %q, want %q", tr.Phase, tt.wantPhase)
			}
			if tr.Ended != tt.wantEnded {
				t.Errorf("Ended = %q, want %q", tr.Ended, tt.wantEnded)
			}
			if tt.wantEnded != "" && tr.EndedAfter != time.Hour {
				t.Errorf("EndedAfter = %v, want %v", tr.EndedAfter, time.Hour)
			}
			if len(tr.Events) != len(tt.wantEvents) {
				t.Fatalf("got %d events, want %d", len(tr.Events), len(tt.wantEvents))
			}
			for i, kind := range tt.wantEvents {
				if tr.Events[i].Kind != kind {
					t.Errorf("event %d kind = %s, want %s", i, tr.Events[i].Kind, kind)
				}
				if !tr.Events[i].At.Equal(now) {
					t.Errorf("event %d at = %v, want %v", i, tr.Events[i].At, now)
				}
			}
			if tt.wantNoop {
				return
			}
			ps := tr.State.Projects["p"]
			if !ps.Active || ps.LastPhase != tt.wantPhase || !ps.StartedAt.Equal(now) {
				t.Errorf("project state = %+v, want active %q since %v", ps, tt.wantPhase, now)
			}
		})
	}
}

func TestStart_SwitchEventsOrder(t *testing.T) {
	state := stateWith("p", ProjectState{LastPhase: "design", Active: true, StartedAt: t0})
	tr, err := Start(state, "code", t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Events[0].Kind != KindEnd || tr.Events[0].Phase != "design" {
		t.Errorf("first event = %+v, want END design", tr.Events[0])
	}
	if tr.Events[1].Kind != KindStart || tr.Events[1].Phase != "code" {
		t.Errorf("second event = %+v, want START code", tr.Events[1])
	}
}

func TestStart_DoesNotMutateInput(t *testing.T) {
	state := stateWith("p", ProjectState{LastPhase: "design"})
	if _, err := Start(state, "code", t0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := state.Projects["p"]; got.Active || got.LastPhase != "design" {
		t.Errorf("input state mutated: %+v", got)
	}
}

func TestEnd(t *testing.T) {
	t.Run("no current project", func(t *testing.T) {
		if _, err := End(State{}, t0); !errors.Is(err, ErrNoCurrentProject) {
			t.Fatalf("err = %v, want ErrNoCurrentProject", err)
		}
	})

	t.Run("nothing running", func(t *testing.T) {
		_, err := End(stateWith("p", ProjectState{LastPhase: "design"}), t0)
		if !errors.Is(err, ErrNoActivePhase) {
			t.Fatalf("err = %v, want ErrNoActivePhase", err)
		}
	})

	t.Run("ends active phase", func(t *testing.T) {
		state := stateWith("p", ProjectState{LastPhase: "design", Active: true, StartedAt: t0})
		tr, err := End(state, t0.Add(time.Hour))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tr.Events) != 1 || tr.Events[0].Kind != KindEnd || tr.Events[0].Phase != "design" {
			t.Fatalf("events = %+v, want one END design", tr.Events)
		}
		ps := tr.State.Projects["p"]
		if ps.Active {
			t.Error("project still active after End")
		}
		if ps.LastPhase != "design" {
			t.Errorf("LastPhase = %q, want %q", ps.LastPhase, "design")
		}
		if tr.EndedAfter != time.Hour {
			t.Errorf("EndedAfter = %v, want %v", tr.EndedAfter, time.Hour)
		}
	})
}

func TestReplay(t *testing.T) {
	start := Event{Project: "p", Phase: "design", Kind: KindStart, At: t0}
	end := Event{Project: "p", Phase: "design", Kind: KindEnd, At: t0.Add(time.Hour)}
	other := Event{Project: "q", Phase: "write", Kind: KindStart, At: t0.Add(2 * time.Hour)}

	tests := []struct {
		name   string
		state  State
		events []Event
		want   State
	}{
		{
			name:   "end after active state",
			state:  stateWith("p", ProjectState{LastPhase: "design", Active: true, StartedAt: t0}),
			events: []Event{end},
			want:   stateWith("p", ProjectState{LastPhase: "design"}),
		},
		{
			name:   "events already reflected",
			state:  stateWith("p", ProjectState{LastPhase: "design"}),
			events: []Event{start, end},
			want:   stateWith("p", ProjectState{LastPhase: "design"}),
		},
		{
			name:   "empty state takes the first project",
			state:  State{},
			events: []Event{start},
			want:   stateWith("p", ProjectState{LastPhase: "design", Active: true, StartedAt: t0}),
		},
		{
			name:   "keeps current project",
			state:  stateWith("p", ProjectState{LastPhase: "design"}),
			events: []Event{other},
			want: State{
				CurrentProject: "p",
				Projects: map[string]ProjectState{
					"p": {LastPhase: "design"},
					"q": {LastPhase: "write", Active: true, StartedAt: other.At},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Replay(tt.state, tt.events...)
			if got.CurrentProject != tt.want.CurrentProject {
				t.Errorf("CurrentProject = %q, want %q", got.CurrentProject, tt.want.CurrentProject)
			}
			if len(got.Projects) != len(tt.want.Projects) {
				t.Fatalf("Projects = %+v, want %+v", got.Projects, tt.want.Projects)
			}
			for name, want := range tt.want.Projects {
				if ps := got.Projects[name]; ps.LastPhase != want.LastPhase || ps.Active != want.Active || !ps.StartedAt.Equal(want.StartedAt) {
					t.Errorf("Projects[%q] = %+v, want %+v", name, ps, want)
				}
			}
		})
	}
}

func TestReplay_DoesNotMutateInput(t *testing.T) {
	state := stateWith("p", ProjectState{LastPhase: "design", Active: true, StartedAt: t0})
	Replay(state, Event{Project: "p", Phase: "design", Kind: KindEnd, At: t0.Add(time.Minute)})
	if !state.Projects["p"].Active {
		t.Error("Replay modified its input state")
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrNoCurrentProject, KindNoCurrentProject},
		{ErrNoPriorPhase, KindNoPriorPhase},
		{ErrNoActivePhase, KindNoActivePhase},
		{InvalidArgument("name is empty"), KindInvalidArgument},
		{errors.New("disk full"), ""},
	}
	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
