package tracker

import (
	"errors"
	"fmt"
)

// Sentinel errors for the tracker's failure kinds. Match with errors.Is.
var (
	ErrNoCurrentProject = errors.New("current project not set")
	ErrNoPriorPhase     = errors.New("no previous phase to resume, phase required")
	ErrNoActivePhase    = errors.New("no active phase")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// Error kind names, as reported in JSON output.
const (
	KindNoCurrentProject = "NoCurrentProject"
	KindNoPriorPhase     = "NoPriorPhase"
	KindNoActivePhase    = "NoActivePhase"
	KindInvalidArgument  = "InvalidArgument"
)

// InvalidArgument wraps ErrInvalidArgument with a description of the bad input.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// ErrorKind returns the kind name for a tracker error, or "" for any other error.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrNoCurrentProject):
		return KindNoCurrentProject
	case errors.Is(err, ErrNoPriorPhase):
		return KindNoPriorPhase
	case errors.Is(err, ErrNoActivePhase):
		return KindNoActivePhase
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	default:
		return ""
	}
}
