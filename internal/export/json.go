package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gorewood/dash/internal/tracker"
)

// WriteJSON writes sessions as an indented JSON array of records.
func WriteJSON(w io.Writer, sessions []tracker.Session, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Records(sessions, now))
}
