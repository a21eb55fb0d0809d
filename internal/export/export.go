package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gorewood/dash/internal/output"
	"github.com/gorewood/dash/internal/tracker"
)

// Format names an export format.
type Format string

// Supported formats.
const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatCSV      Format = "csv"
)

// ParseFormat validates a format name. "markdown" is accepted as an alias for "md".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", output.NewUserError(fmt.Sprintf("invalid format %q (want json, md or csv)", name))
	}
}

// Options control rendering.
type Options struct {
	// Now measures sessions that are still running.
	Now time.Time
	// TimeFormat is the layout for timestamps in Markdown output.
	TimeFormat string
	// Title heads the Markdown report.
	Title string
}

// Record is the exported form of one session.
type Record struct {
	Project string     `json:"project"`
	Phase   string     `json:"phase"`
	Start   time.Time  `json:"start"`
	End     *time.Time `json:"end,omitempty"`
	Seconds int64      `json:"duration_seconds"`
	Delta   string     `json:"delta"`
	Running bool       `json:"running"`
}

// Records converts sessions to exported records.
func Records(sessions []tracker.Session, now time.Time) []Record {
	records := make([]Record, 0, len(sessions))
	for _, s := range sessions {
		d := s.Duration(now)
		records = append(records, Record{
			Project: s.Project,
			Phase:   s.Phase,
			Start:   s.Start,
			End:     s.End,
			Seconds: int64(d / time.Second),
			Delta:   FormatDelta(d),
			Running: s.Running(),
		})
	}
	return records
}

// Write renders sessions to w in the given format.
func Write(w io.Writer, format Format, sessions []tracker.Session, opts Options) error {
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	switch format {
	case FormatJSON:
		return WriteJSON(w, sessions, opts.Now)
	case FormatMarkdown:
		_, err := io.WriteString(w, FormatMarkdownReport(sessions, opts))
		return err
	case FormatCSV:
		return WriteCSV(w, sessions, opts.Now)
	default:
		return output.NewUserError(fmt.Sprintf("invalid format %q", format))
	}
}

// WriteFile renders sessions into the file at path, replacing it.
func WriteFile(path string, format Format, sessions []tracker.Session, opts Options) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return output.NewSystemErrorWithCause("failed to create "+path, err)
	}
	if err := Write(f, format, sessions, opts); err != nil {
		_ = f.Close()
		return output.NewSystemErrorWithCause("failed to write "+path, err)
	}
	if err := f.Close(); err != nil {
		return output.NewSystemErrorWithCause("failed to close "+path, err)
	}
	return nil
}
