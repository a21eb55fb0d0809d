package tracker

import (
	"iter"
	"sort"
	"time"
)

// Session is one START paired with its END. End is nil while the phase runs.
type Session struct {
	Project string     `json:"project"`
	Phase   string     `json:"phase"`
	Start   time.Time  `json:"start"`
	End     *time.Time `json:"end,omitempty"`
}

// Running reports whether the session has not ended yet.
func (s Session) Running() bool {
	return s.End == nil
}

// Duration returns the session length, measuring running sessions up to now.
func (s Session) Duration(now time.Time) time.Duration {
	if s.End != nil {
		return s.End.Sub(s.Start)
	}
	return now.Sub(s.Start)
}

// Sessions folds an event sequence into sessions in start order.
func Sessions(events iter.Seq2[Event, error]) ([]Session, error) {
	var sessions []Session
	open := make(map[string]int)

	for event, err := range events {
		if err != nil {
			return nil, err
		}
		switch event.Kind {
		case KindStart:
			open[event.Project] = len(sessions)
			sessions = append(sessions, Session{
				Project: event.Project,
				Phase:   event.Phase,
				Start:   event.At,
			})
		case KindEnd:
			idx, ok := open[event.Project]
			if !ok || sessions[idx].Phase != event.Phase {
				continue
			}
			end := event.At
			sessions[idx].End = &end
			delete(open, event.Project)
		}
	}
	return sessions, nil
}

// SessionFilter narrows a session list. Zero values disable each criterion.
type SessionFilter struct {
	Project string
	Since   time.Time
	Until   time.Time
	Last    int
}

// FilterSessions applies f to sessions. Results stay in start order;
// Last keeps the most recent N.
func FilterSessions(sessions []Session, f SessionFilter) []Session {
	var result []Session
	for _, s := range sessions {
		if f.Project != "" && s.Project != f.Project {
			continue
		}
		if !f.Since.IsZero() && s.Start.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && s.Start.After(f.Until) {
			continue
		}
		result = append(result, s)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})

	if f.Last > 0 && len(result) > f.Last {
		result = result[len(result)-f.Last:]
	}
	return result
}

// TotalDuration sums the duration of sessions, measuring running ones up to now.
func TotalDuration(sessions []Session, now time.Time) time.Duration {
	var total time.Duration
	for _, s := range sessions {
		total += s.Duration(now)
	}
	return total
}
