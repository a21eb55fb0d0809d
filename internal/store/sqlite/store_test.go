package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/gorewood/dash/internal/output"
	"github.com/gorewood/dash/internal/tracker"
)

var t0 = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func collect(t *testing.T, store *Store) []tracker.Event {
	t.Helper()
	var events []tracker.Event
	for ev, err := range store.Events(context.Background()) {
		if err != nil {
			t.Fatalf("read events: %v", err)
		}
		events = append(events, ev)
	}
	return events
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestLoadEmpty(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	state, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if state.CurrentProject != "" || len(state.Projects) != 0 {
		t.Fatalf("state = %+v, want empty", state)
	}
	if events := collect(t, store); len(events) != 0 {
		t.Fatalf("events = %v, want none", events)
	}
}

func TestCommitRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	started := t0.Add(90*time.Minute + 987654321*time.Nanosecond)

	state := tracker.State{
		CurrentProject: "dash",
		Projects: map[string]tracker.ProjectState{
			"dash":  {LastPhase: "code", Active: true, StartedAt: started},
			"other": {LastPhase: "design"},
		},
	}
	events := []tracker.Event{
		{ID: "e1", Project: "dash", Phase: "design", Kind: tracker.KindStart, At: t0},
		{ID: "e2", Project: "dash", Phase: "design", Kind: tracker.KindEnd, At: started},
		{ID: "e3", Project: "dash", Phase: "code", Kind: tracker.KindStart, At: started},
	}
	if err := store.Commit(ctx, state, events); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, state) {
		t.Fatalf("state = %+v, want %+v", got, state)
	}
	if gotEvents := collect(t, store); !reflect.DeepEqual(gotEvents, events) {
		t.Fatalf("events = %+v, want %+v", gotEvents, events)
	}
}

func TestCommitReplacesState(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	first := tracker.State{
		CurrentProject: "a",
		Projects:       map[string]tracker.ProjectState{"a": {}, "b": {LastPhase: "x"}},
	}
	if err := store.Commit(ctx, first, nil); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	second := tracker.State{
		CurrentProject: "b",
		Projects:       map[string]tracker.ProjectState{"b": {LastPhase: "y"}},
	}
	if err := store.Commit(ctx, second, nil); err != nil {
		t.Fatalf("second commit: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Fatalf("state = %+v, want %+v", got, second)
	}
}

func TestCommitIsAtomic(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	ev := tracker.Event{ID: "dup", Project: "p", Phase: "a", Kind: tracker.KindStart, At: t0}
	if err := store.Commit(ctx, tracker.State{CurrentProject: "p"}, []tracker.Event{ev}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	next := tracker.State{CurrentProject: "q"}
	end := tracker.Event{ID: "fresh", Project: "p", Phase: "a", Kind: tracker.KindEnd, At: t0.Add(time.Minute)}
	err := store.Commit(ctx, next, []tracker.Event{end, ev})
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
	if code := output.GetExitCode(err); code != output.ExitSystemError {
		t.Fatalf("exit code = %d, want %d", code, output.ExitSystemError)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.CurrentProject != "p" {
		t.Fatalf("current project = %q, want %q after rollback", got.CurrentProject, "p")
	}
	if events := collect(t, store); len(events) != 1 {
		t.Fatalf("events = %d, want 1 after rollback", len(events))
	}
}

func TestEventsRestartable(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	events := []tracker.Event{
		{ID: "e1", Project: "p", Phase: "a", Kind: tracker.KindStart, At: t0},
		{ID: "e2", Project: "p", Phase: "a", Kind: tracker.KindEnd, At: t0.Add(time.Minute)},
	}
	if err := store.Commit(context.Background(), tracker.State{}, events); err != nil {
		t.Fatalf("commit: %v", err)
	}

	first := collect(t, store)
	second := collect(t, store)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second pass = %+v, want %+v", second, first)
	}

	n := 0
	for range store.Events(context.Background()) {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("iterations after break = %d, want 1", n)
	}
}

func TestReopenKeepsData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)
	ctx := context.Background()

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	tr := tracker.New(store, func() time.Time { return t0 }, nil)
	if _, err := tr.SetProject(ctx, "myproject"); err != nil {
		t.Fatalf("set project: %v", err)
	}
	if _, err := tr.Start(ctx, "design"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	store, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	st, err := tracker.New(store, func() time.Time { return t0.Add(time.Hour) }, nil).Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Project != "myproject" || st.Phase != "design" || !st.Active {
		t.Fatalf("status = %+v, want myproject/design active", st)
	}
	if st.Elapsed != time.Hour {
		t.Fatalf("elapsed = %v, want 1h", st.Elapsed)
	}
}
