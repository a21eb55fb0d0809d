package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gorewood/dash/internal/tracker"
)

const defaultTitle = "Work log"

// FormatMarkdownReport renders sessions as a Markdown document with one
// section per project: the session table, the project total and a
// per-phase summary.
func FormatMarkdownReport(sessions []tracker.Session, opts Options) string {
	title := opts.Title
	if title == "" {
		title = defaultTitle
	}
	layout := opts.TimeFormat
	if layout == "" {
		layout = "2006-01-02 15:04"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "# %s\n\n", title)

	if len(sessions) == 0 {
		builder.WriteString("_No sessions._\n")
		return builder.String()
	}

	byProject := groupByProject(sessions)
	for _, project := range sortedKeys(byProject) {
		writeProject(&builder, project, byProject[project], opts.Now, layout)
	}
	return builder.String()
}

func writeProject(builder *strings.Builder, project string, sessions []tracker.Session, now time.Time, layout string) {
	fmt.Fprintf(builder, "## %s\n\n", escapeCell(project))

	builder.WriteString("| Phase | Start | End | Delta |\n")
	builder.WriteString("|---|---|---|---|\n")
	for _, s := range sessions {
		end := "running"
		if s.End != nil {
			end = s.End.Local().Format(layout)
		}
		fmt.Fprintf(builder, "| %s | %s | %s | %s |\n",
			escapeCell(s.Phase),
			s.Start.Local().Format(layout),
			end,
			FormatDelta(s.Duration(now)))
	}
	fmt.Fprintf(builder, "\n**Total:** %s\n\n", FormatDelta(tracker.TotalDuration(sessions, now)))

	writePhaseSummary(builder, sessions, now)
}

// writePhaseSummary writes session counts and time per phase, sorted by phase name.
func writePhaseSummary(builder *strings.Builder, sessions []tracker.Session, now time.Time) {
	type phaseTotal struct {
		count int
		total time.Duration
	}
	totals := make(map[string]*phaseTotal)
	for _, s := range sessions {
		pt, ok := totals[s.Phase]
		if !ok {
			pt = &phaseTotal{}
			totals[s.Phase] = pt
		}
		pt.count++
		pt.total += s.Duration(now)
	}

	builder.WriteString("### By phase\n\n")
	builder.WriteString("| Phase | Sessions | Total |\n")
	builder.WriteString("|---|---|---|\n")
	for _, phase := range sortedKeys(totals) {
		pt := totals[phase]
		fmt.Fprintf(builder, "| %s | %d | %s |\n", escapeCell(phase), pt.count, FormatDelta(pt.total))
	}
	builder.WriteString("\n")
}

func groupByProject(sessions []tracker.Session) map[string][]tracker.Session {
	groups := make(map[string][]tracker.Session)
	for _, s := range sessions {
		groups[s.Project] = append(groups[s.Project], s)
	}
	return groups
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// escapeCell keeps pipes in names from breaking table columns.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
