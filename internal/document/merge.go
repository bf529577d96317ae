package document

import (
	"fmt"
	"sort"
	"time"
)

// Outcome describes what Merge did with a request.
type Outcome int

const (
	// OutcomeAlreadyExists means the user already has a section for the week
	// and the document was returned unchanged.
	OutcomeAlreadyExists Outcome = iota

	// OutcomeAddedUserToWeek means the week existed and the user's section
	// was appended to it.
	OutcomeAddedUserToWeek

	// OutcomeAddedWeekToMonth means the month existed and a new week section
	// was inserted in date order.
	OutcomeAddedWeekToMonth

	// OutcomeAddedNewMonth means a whole new month section was created.
	OutcomeAddedNewMonth

	// OutcomeReplaced means an existing section for the user was overwritten
	// (replace mode only).
	OutcomeReplaced
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAlreadyExists:
		return "already-exists"
	case OutcomeAddedUserToWeek:
		return "added-user"
	case OutcomeAddedWeekToMonth:
		return "added-week"
	case OutcomeAddedNewMonth:
		return "added-month"
	case OutcomeReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Written reports whether the outcome changed the document.
func (o Outcome) Written() bool {
	return o != OutcomeAlreadyExists
}

// Request is one report to merge into the page.
type Request struct {
	// Month is the month heading the report belongs under, e.g. "March".
	Month string

	// WeekEnding is the DD/MM week-ending label.
	WeekEnding string

	// DisplayName is the user heading.
	DisplayName string

	// Body is the formatted report markup.
	Body string

	// Replace overwrites an existing section for this user instead of
	// leaving the document untouched.
	Replace bool
}

// Merge inserts the requested report into the correct chronological position
// of the current page content and returns the full regenerated page.
//
// Merging the same request twice is a no-op: the second call returns the
// content byte-for-byte unchanged with OutcomeAlreadyExists. Every other
// outcome rebuilds the page by concatenating all month sections in calendar
// order descending, leaving untouched sections verbatim.
func Merge(current string, req Request) (string, Outcome) {
	doc := Parse(current)

	if doc.HasUser(req.WeekEnding, req.DisplayName) && !req.Replace {
		return current, OutcomeAlreadyExists
	}

	month := doc.Month(req.Month)
	if month == nil {
		doc.Months = append(doc.Months, &MonthSection{
			Name: req.Month,
			Text: fmt.Sprintf("\n<h1>%s</h1>\n<h2>w/e %s</h2>\n<h3>%s</h3>\n%s\n",
				req.Month, req.WeekEnding, req.DisplayName, req.Body),
		})
		return doc.Rebuild(), OutcomeAddedNewMonth
	}

	var outcome Outcome
	week := month.Week(req.WeekEnding)
	switch {
	case week == nil:
		month.insertWeek(req)
		outcome = OutcomeAddedWeekToMonth
	case week.User(req.DisplayName) != nil:
		// Only reachable in replace mode; the idempotency check above
		// already returned for the plain case.
		month.replaceUser(week, req)
		outcome = OutcomeReplaced
	default:
		month.appendUser(week, req)
		outcome = OutcomeAddedUserToWeek
	}

	return doc.Rebuild(), outcome
}

// projected maps a day/month pair onto a common reference year so week
// labels can be compared. Labels carry no year, so this is a day/month
// comparison only.
func projected(day, month int) time.Time {
	return time.Date(2000, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// insertWeek splices a new week section into the month so that weeks stay in
// descending date order: immediately before the first existing week strictly
// older than the new one, or after the last week's block (equivalently at
// the end of the month section) when the new week is the oldest.
func (m *MonthSection) insertWeek(req Request) {
	day, monthNum, err := ParseLabel(req.WeekEnding)
	if err != nil {
		// Malformed request labels cannot be ordered; append at the end.
		day, monthNum = 0, 0
	}
	newDate := projected(day, monthNum)

	byDateDesc := make([]*WeekSection, len(m.Weeks))
	copy(byDateDesc, m.Weeks)
	sort.SliceStable(byDateDesc, func(i, j int) bool {
		return projected(byDateDesc[i].Day, byDateDesc[i].Month).After(projected(byDateDesc[j].Day, byDateDesc[j].Month))
	})

	pos := len(m.Text)
	if len(m.Weeks) > 0 {
		pos = m.Weeks[len(m.Weeks)-1].End
	}
	for _, w := range byDateDesc {
		if projected(w.Day, w.Month).Before(newDate) {
			pos = w.Start
			break
		}
	}

	section := fmt.Sprintf("\n<h2>w/e %s</h2>\n<h3>%s</h3>\n%s\n",
		req.WeekEnding, req.DisplayName, req.Body)
	m.Text = m.Text[:pos] + section + m.Text[pos:]
}

// appendUser adds the user's section at the end of the week span, after all
// existing user sections.
func (m *MonthSection) appendUser(week *WeekSection, req Request) {
	section := fmt.Sprintf("\n<h3>%s</h3>\n%s\n", req.DisplayName, req.Body)
	m.Text = m.Text[:week.End] + section + m.Text[week.End:]
}

// replaceUser swaps the body under the user's existing heading for the
// request body, leaving the heading and the rest of the week untouched.
func (m *MonthSection) replaceUser(week *WeekSection, req Request) {
	u := week.User(req.DisplayName)
	if u == nil {
		return
	}
	m.Text = m.Text[:u.HeadEnd] + "\n" + req.Body + "\n" + m.Text[u.End:]
}
