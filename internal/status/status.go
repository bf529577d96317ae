// Package status reports which weeks of a year already carry a submitted
// report on the page, without writing anything.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/dusk-indust/warsync/internal/calendar"
	"github.com/dusk-indust/warsync/internal/document"
)

// WeekStatus describes the coverage of a single completed week.
type WeekStatus struct {
	Label   string    // week-ending label as it appears (or would appear) on the page
	End     time.Time // the Friday ending the week
	Covered bool
}

// Coverage holds per-week report coverage for one user and year.
type Coverage struct {
	Year    int
	User    string
	Weeks   []WeekStatus // newest first, matching the backfill order
	Covered int
	Missing int
}

// ForYear checks every completed week of the year against the page content.
// Labels follow the date format already in use on the page, so coverage
// matches what a backfill run would skip.
func ForYear(content, user string, year int, now time.Time) *Coverage {
	doc := document.Parse(content)
	format := document.DetectDateFormat(content)
	weeks := calendar.WeeksOfYear(year, now)

	cov := &Coverage{Year: year, User: user}
	for i := len(weeks) - 1; i >= 0; i-- {
		label := format.Label(weeks[i].End)
		covered := doc.HasUser(label, user)
		if covered {
			cov.Covered++
		} else {
			cov.Missing++
		}
		cov.Weeks = append(cov.Weeks, WeekStatus{
			Label:   label,
			End:     weeks[i].End,
			Covered: covered,
		})
	}
	return cov
}

// MissingLabels lists the week-ending labels with no report, newest first.
func (c *Coverage) MissingLabels() []string {
	var labels []string
	for _, w := range c.Weeks {
		if !w.Covered {
			labels = append(labels, w.Label)
		}
	}
	return labels
}

// String renders the coverage as the table printed by the status command.
func (c *Coverage) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Report coverage for %s, %d\n", c.User, c.Year)
	for _, w := range c.Weeks {
		mark := " "
		if w.Covered {
			mark = "x"
		}
		fmt.Fprintf(&sb, "  [%s] w/e %s\n", mark, w.Label)
	}
	fmt.Fprintf(&sb, "%d of %d weeks covered", c.Covered, c.Covered+c.Missing)
	return sb.String()
}
