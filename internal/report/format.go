// Package report turns raw time entries into the markup body of one user's
// weekly report: an unordered list of projects, each with its deduplicated
// task descriptions.
package report

import (
	"html"
	"sort"
	"strings"

	"github.com/dusk-indust/warsync/internal/toggl"
)

// NoProjectBucket is the group for entries whose project id is absent or
// does not resolve against the project map.
const NoProjectBucket = "No Project"

// NoRecordsPlaceholder is rendered when a period has no time entries at all.
const NoRecordsPlaceholder = "No time records found for this period."

// Format groups entries by resolved project name, deduplicates identical
// descriptions within a project, and renders a nested list with projects and
// descriptions each in lexicographic order. All text is HTML-escaped.
func Format(entries []toggl.TimeEntry, projects map[int64]string) string {
	if len(entries) == 0 {
		return NoRecordsPlaceholder
	}

	groups := make(map[string]map[string]bool)
	for _, e := range entries {
		name := NoProjectBucket
		if e.ProjectID != nil {
			if resolved, ok := projects[*e.ProjectID]; ok {
				name = resolved
			}
		}

		if groups[name] == nil {
			groups[name] = make(map[string]bool)
		}

		// Entries without a description still pin their project into the
		// list; they just contribute no task line.
		desc := strings.TrimSpace(e.Description)
		if desc != "" {
			groups[name][html.EscapeString(desc)] = true
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := []string{"<ul>"}
	for _, name := range names {
		lines = append(lines, "<li>"+html.EscapeString(name))

		descs := make([]string, 0, len(groups[name]))
		for d := range groups[name] {
			descs = append(descs, d)
		}
		sort.Strings(descs)

		if len(descs) > 0 {
			lines = append(lines, "<ul>")
			for _, d := range descs {
				lines = append(lines, "<li>"+d+"</li>")
			}
			lines = append(lines, "</ul>")
		}
		lines = append(lines, "</li>")
	}
	lines = append(lines, "</ul>")

	return strings.Join(lines, "\n")
}
