package export

import (
	"fmt"
	"time"
)

// FormatDelta renders d as H:MM, rounded to the nearest minute.
// Negative durations render as 0:00.
func FormatDelta(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int64(d.Round(time.Minute) / time.Minute)
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
