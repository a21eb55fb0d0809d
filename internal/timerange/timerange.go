// Package timerange parses the --since and --until values accepted by the
// log and export commands.
//
// A value is either a relative duration counted back from now ("24h", "7d",
// "2w", "1m" for hours, days, weeks and months), a calendar date
// ("2026-01-17") or an RFC 3339 timestamp. Dates are interpreted in the
// location of the reference time.
package timerange

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var durationRegex = regexp.MustCompile(`^(\d+)([hdwm])$`)

const dateLayout = "2006-01-02"

// Since parses a --since value into the earliest time to include.
func Since(value string, now time.Time) (time.Time, error) {
	t, err := Parse(value, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since value %q; use duration (24h, 7d, 2w) or date (2026-01-17)", value)
	}
	return t, nil
}

// Until parses an --until value into the latest time to include.
// A bare date extends to the end of that day.
func Until(value string, now time.Time) (time.Time, error) {
	cutoff, err := Parse(value, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --until value %q; use duration (24h, 7d, 2w) or date (2026-01-17)", value)
	}
	if isDate(value) {
		cutoff = cutoff.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return cutoff, nil
}

// Parse parses a duration, date or timestamp relative to now.
func Parse(value string, now time.Time) (time.Time, error) {
	if matches := durationRegex.FindStringSubmatch(value); len(matches) == 3 {
		return back(now, matches[1], matches[2])
	}

	if t, err := time.ParseInLocation(dateLayout, value, now.Location()); err == nil {
		return t, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid time value: %s", value)
}

func isDate(value string) bool {
	return len(value) == len(dateLayout) && value[4] == '-' && value[7] == '-'
}

// back steps now backwards by num units.
func back(now time.Time, numStr, unit string) (time.Time, error) {
	num, err := strconv.Atoi(numStr)
	if err != nil || num <= 0 {
		return time.Time{}, fmt.Errorf("invalid duration number: %s", numStr)
	}

	switch unit {
	case "h":
		return now.Add(-time.Duration(num) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, -num), nil
	case "w":
		return now.AddDate(0, 0, -num*7), nil
	case "m":
		return now.AddDate(0, -num, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown duration unit: %s", unit)
	}
}
