// Package export renders tracked sessions for reporting and integration
// with other tools.
//
// # Supported Formats
//
//   - JSON: an array of session records with start, end and duration
//   - Markdown: a report with one session table per project and a
//     per-phase summary
//   - CSV: one row per session, suitable for spreadsheets
//
// All formats write to an io.Writer:
//
//	export.Write(w, export.FormatMarkdown, sessions, opts)
//
// Running sessions are measured up to Options.Now and reported with an
// empty end.
//
// # Durations
//
// Human formats render durations as H:MM rounded to the nearest minute
// (see FormatDelta). JSON and CSV carry whole seconds.
package export
