// Package store provides the default file-backed tracker store.
//
// The data directory holds two files: state.yaml with the current project,
// per-project phase state and the log size it reflects, and events.jsonl with
// one JSON event per line.
package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/dash/internal/output"
	"github.com/gorewood/dash/internal/tracker"
)

// File names inside the data directory.
const (
	StateFileName  = "state.yaml"
	EventsFileName = "events.jsonl"
)

// maxLineSize bounds a single log line.
const maxLineSize = 1 << 20

// FileStore keeps state in YAML and the event log in JSON lines.
type FileStore struct {
	dir string
}

var _ tracker.Store = (*FileStore)(nil)

// New creates a FileStore rooted at dir. The directory is created on first write.
func New(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the storage directory path.
func (fs *FileStore) Dir() string {
	return fs.dir
}

func (fs *FileStore) statePath() string {
	return filepath.Join(fs.dir, StateFileName)
}

func (fs *FileStore) eventsPath() string {
	return filepath.Join(fs.dir, EventsFileName)
}

// stateFile is the on-disk form of state.yaml. LogOffset is the size of
// events.jsonl when the state was written; anything past it was appended by
// a commit whose state write never landed.
type stateFile struct {
	tracker.State `yaml:",inline"`
	LogOffset     int64 `yaml:"log_offset,omitempty"`
}

// Load reads state.yaml and replays any events logged after it was written.
// A missing state file replays the whole log.
func (fs *FileStore) Load(ctx context.Context) (tracker.State, error) {
	if err := ctx.Err(); err != nil {
		return tracker.State{}, err
	}

	var sf stateFile
	data, err := os.ReadFile(fs.statePath())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return tracker.State{}, output.NewSystemErrorWithCause("failed to read state file", err)
	default:
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return tracker.State{}, output.NewSystemErrorWithCause(
				fmt.Sprintf("failed to parse %s: %v", fs.statePath(), err), err)
		}
	}

	size, err := fs.logSize()
	if err != nil {
		return tracker.State{}, err
	}
	if size == sf.LogOffset {
		return sf.State, nil
	}
	// A log shorter than the recorded offset was rewritten outside dash;
	// replaying all of it is safe because replay is idempotent.
	offset := sf.LogOffset
	if size < offset {
		offset = 0
	}

	var pending []tracker.Event
	for ev, err := range fs.readEvents(ctx, offset) {
		if err != nil {
			return tracker.State{}, err
		}
		pending = append(pending, ev)
	}
	return tracker.Replay(sf.State, pending...), nil
}

// Commit appends events to the log, then replaces state.yaml with the log
// size it now reflects. If the state write fails the next Load replays the
// appended events, so the state never falls behind the log.
func (fs *FileStore) Commit(ctx context.Context, state tracker.State, events []tracker.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return output.NewSystemErrorWithCause("failed to create data directory", err)
	}

	if err := fs.appendEvents(events); err != nil {
		return err
	}
	size, err := fs.logSize()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(stateFile{State: state, LogOffset: size})
	if err != nil {
		return output.NewSystemErrorWithCause("failed to serialize state", err)
	}
	if err := atomicWrite(fs.statePath(), data); err != nil {
		return output.NewSystemErrorWithCause("failed to write state file", err)
	}
	return nil
}

// logSize returns the size of events.jsonl, zero when it does not exist.
func (fs *FileStore) logSize() (int64, error) {
	info, err := os.Stat(fs.eventsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, output.NewSystemErrorWithCause("failed to stat event log", err)
	}
	return info.Size(), nil
}

func (fs *FileStore) appendEvents(events []tracker.Event) error {
	if len(events) == 0 {
		return nil
	}

	var buf []byte
	for _, ev := range events {
		if !ev.Valid() {
			return output.NewSystemError(fmt.Sprintf("refusing to log incomplete event %+v", ev))
		}
		line, err := json.Marshal(ev)
		if err != nil {
			return output.NewSystemErrorWithCause("failed to serialize event", err)
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}

	f, err := os.OpenFile(fs.eventsPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return output.NewSystemErrorWithCause("failed to open event log", err)
	}
	if _, err := f.Write(buf); err != nil {
		_ = f.Close()
		return output.NewSystemErrorWithCause("failed to append to event log", err)
	}
	if err := f.Close(); err != nil {
		return output.NewSystemErrorWithCause("failed to close event log", err)
	}
	return nil
}

// Events returns the log in file order. Each range opens the file anew and
// decodes it line by line; a missing file is an empty log.
func (fs *FileStore) Events(ctx context.Context) iter.Seq2[tracker.Event, error] {
	return fs.readEvents(ctx, 0)
}

// readEvents decodes the log starting at byte offset. Line numbers in errors
// count from offset.
func (fs *FileStore) readEvents(ctx context.Context, offset int64) iter.Seq2[tracker.Event, error] {
	return func(yield func(tracker.Event, error) bool) {
		f, err := os.Open(fs.eventsPath())
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				yield(tracker.Event{}, output.NewSystemErrorWithCause("failed to open event log", err))
			}
			return
		}
		defer func() { _ = f.Close() }()

		if offset > 0 {
			if _, err := f.Seek(offset, io.SeekStart); err != nil {
				yield(tracker.Event{}, output.NewSystemErrorWithCause("failed to seek event log", err))
				return
			}
		}

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			if err := ctx.Err(); err != nil {
				yield(tracker.Event{}, err)
				return
			}
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			ev, err := decodeEvent(line)
			if err != nil {
				yield(tracker.Event{}, output.NewSystemErrorWithCause(
					fmt.Sprintf("corrupt event log %s: line %d: %v", fs.eventsPath(), lineNo, err), err))
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(tracker.Event{}, output.NewSystemErrorWithCause("failed to read event log", err))
		}
	}
}

func decodeEvent(line []byte) (tracker.Event, error) {
	var ev tracker.Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return tracker.Event{}, err
	}
	if !ev.Valid() {
		return tracker.Event{}, errors.New("missing required fields")
	}
	return ev, nil
}

// Close implements tracker.Store. The file store holds no open handles.
func (fs *FileStore) Close() error {
	return nil
}

// atomicWrite writes data to path using write-to-temp-then-rename.
// The temp file is created in the same directory as path.
func atomicWrite(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
