package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/gorewood/dash/internal/tracker"
)

var csvHeader = []string{"project", "phase", "start", "end", "duration_seconds", "delta"}

// WriteCSV writes one row per session. Timestamps are RFC 3339 in UTC;
// a running session has an empty end.
func WriteCSV(w io.Writer, sessions []tracker.Session, now time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range Records(sessions, now) {
		end := ""
		if r.End != nil {
			end = r.End.UTC().Format(time.RFC3339)
		}
		row := []string{
			r.Project,
			r.Phase,
			r.Start.UTC().Format(time.RFC3339),
			end,
			strconv.FormatInt(r.Seconds, 10),
			r.Delta,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
