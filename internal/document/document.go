// Package document models the report page as nested ordered sections
// (month, then week, then user) and implements the idempotent merge of a
// single weekly report into the page.
//
// The page uses Confluence storage markup with a heading convention:
// <h1> is a month name, <h2> is a "w/e DD/MM" week-ending label, <h3> is a
// user's display name followed by the report body. Headings carry no year:
// month identity is name-only and week labels compare day/month only, so a
// page spanning multiple calendar years conflates same-named months. This
// matches the convention of existing pages and is preserved deliberately.
package document

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthNames is the fixed vocabulary of recognized month headings, in
// calendar order. Level-1 headings with any other text are not treated as
// month boundaries.
var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// monthIndex returns the calendar position of name (0-11), or -1 when name
// is not a recognized month.
func monthIndex(name string) int {
	for i, m := range monthNames {
		if m == name {
			return i
		}
	}
	return -1
}

var (
	headingOpenRe = regexp.MustCompile(`<h([123])>`)
	weekLabelRe   = regexp.MustCompile(`^w/e\s+(\d{1,2})/(\d{1,2})$`)
	unpaddedRe    = regexp.MustCompile(`<h2>w/e (\d/\d{1,2}|\d{1,2}/\d)</h2>`)
)

// DateFormat is the week-label convention detected on a page.
type DateFormat int

const (
	// FormatPadded renders labels as DD/MM (e.g. "01/05").
	FormatPadded DateFormat = iota

	// FormatUnpadded renders labels without leading zeros (e.g. "1/5").
	FormatUnpadded
)

// DetectDateFormat inspects existing week headings and reports whether the
// page uses unpadded labels. Pages with no week headings default to padded.
func DetectDateFormat(content string) DateFormat {
	if unpaddedRe.MatchString(content) {
		return FormatUnpadded
	}
	return FormatPadded
}

// Label formats the week-ending date of t in this convention.
func (f DateFormat) Label(t time.Time) string {
	if f == FormatUnpadded {
		return fmt.Sprintf("%d/%d", t.Day(), int(t.Month()))
	}
	return fmt.Sprintf("%02d/%02d", t.Day(), int(t.Month()))
}

// ParseLabel splits a DD/MM (or D/M) week-ending label into day and month.
func ParseLabel(label string) (day, month int, err error) {
	parts := strings.Split(label, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("document: malformed week label %q", label)
	}
	day, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("document: malformed week label %q", label)
	}
	month, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("document: malformed week label %q", label)
	}
	return day, month, nil
}

// Document is the parsed section tree of one page. Months appear in page
// order; Rebuild re-sorts them into calendar order descending.
type Document struct {
	Months []*MonthSection
}

// MonthSection is one month heading plus everything up to the next
// recognized month heading or the end of the page.
type MonthSection struct {
	Name string
	Text string

	Weeks []*WeekSection
}

// WeekSection is one week heading plus its user sections. Offsets index into
// the owning month's Text: Start is the heading's opening byte, HeadEnd is
// just past the closing </h2>, End is the section boundary (the next week or
// month heading, or the end of the month section).
type WeekSection struct {
	Label string
	Day   int
	Month int

	Start   int
	HeadEnd int
	End     int

	Users []*UserSection
}

// UserSection is one display-name heading plus the report body that follows
// it, with the same offset convention as WeekSection.
type UserSection struct {
	Name string

	Start   int
	HeadEnd int
	End     int
}

// heading is one matched <hN>...</hN> within a scan.
type heading struct {
	level   int
	text    string
	start   int // index of "<h"
	headEnd int // index just past "</hN>"
}

// scanHeadings finds every well-formed h1/h2/h3 in content, in order.
// Openings without a matching close tag are skipped rather than repaired.
func scanHeadings(content string) []heading {
	var out []heading
	for _, loc := range headingOpenRe.FindAllStringSubmatchIndex(content, -1) {
		level := int(content[loc[2]] - '0')
		open := loc[1]
		closeTag := fmt.Sprintf("</h%d>", level)
		rel := strings.Index(content[open:], closeTag)
		if rel < 0 {
			continue
		}
		out = append(out, heading{
			level:   level,
			text:    strings.TrimSpace(content[open : open+rel]),
			start:   loc[0],
			headEnd: open + rel + len(closeTag),
		})
	}
	return out
}

// Parse builds the section tree for a page in a single pass. Content before
// the first recognized month heading is not captured and is therefore lost
// on the next rebuild; malformed nesting is tolerated but not repaired.
func Parse(content string) *Document {
	headings := scanHeadings(content)

	// Month spans: each recognized h1 up to the next recognized h1 or EOF.
	var monthIdx []int
	for i, h := range headings {
		if h.level == 1 && monthIndex(h.text) >= 0 {
			monthIdx = append(monthIdx, i)
		}
	}

	doc := &Document{}
	for n, hi := range monthIdx {
		start := headings[hi].start
		end := len(content)
		if n+1 < len(monthIdx) {
			end = headings[monthIdx[n+1]].start
		}

		m := &MonthSection{
			Name: headings[hi].text,
			Text: content[start:end],
		}
		m.parseWeeks(headings, hi, start, end)
		doc.Months = append(doc.Months, m)
	}
	return doc
}

// parseWeeks fills in week and user spans for one month. headings is the
// page-wide scan; monthHeading is the index of this month's h1 and
// [base, end) is the month's span in the page.
func (m *MonthSection) parseWeeks(headings []heading, monthHeading, base, end int) {
	// Collect the headings inside this month's span, past its own h1.
	var inner []heading
	for _, h := range headings[monthHeading+1:] {
		if h.start >= end {
			break
		}
		inner = append(inner, h)
	}

	for i, h := range inner {
		if h.level != 2 {
			continue
		}
		lm := weekLabelRe.FindStringSubmatch(h.text)
		if lm == nil {
			continue
		}
		day, _ := strconv.Atoi(lm[1])
		monthNum, _ := strconv.Atoi(lm[2])

		// The week runs to the next h1/h2 in this month, or the month end.
		wEnd := end
		for _, nh := range inner[i+1:] {
			if nh.level <= 2 {
				wEnd = nh.start
				break
			}
		}

		w := &WeekSection{
			Label:   lm[1] + "/" + lm[2],
			Day:     day,
			Month:   monthNum,
			Start:   h.start - base,
			HeadEnd: h.headEnd - base,
			End:     wEnd - base,
		}

		// User sections within the week span.
		for j, uh := range inner[i+1:] {
			if uh.start >= wEnd {
				break
			}
			if uh.level != 3 {
				continue
			}
			uEnd := wEnd
			for _, nh := range inner[i+1+j+1:] {
				if nh.start >= wEnd {
					break
				}
				uEnd = nh.start
				break
			}
			w.Users = append(w.Users, &UserSection{
				Name:    uh.text,
				Start:   uh.start - base,
				HeadEnd: uh.headEnd - base,
				End:     uEnd - base,
			})
		}

		m.Weeks = append(m.Weeks, w)
	}
}

// Month returns the section for the named month, or nil.
func (d *Document) Month(name string) *MonthSection {
	for _, m := range d.Months {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Week returns the week whose label matches the given one numerically, so
// "07/03" and "7/3" identify the same week. Returns nil when absent or when
// the label is malformed.
func (m *MonthSection) Week(label string) *WeekSection {
	day, monthNum, err := ParseLabel(label)
	if err != nil {
		return nil
	}
	for _, w := range m.Weeks {
		if w.Day == day && w.Month == monthNum {
			return w
		}
	}
	return nil
}

// User returns the user section for the given display name, or nil.
func (w *WeekSection) User(name string) *UserSection {
	for _, u := range w.Users {
		if u.Name == name {
			return u
		}
	}
	return nil
}

// HasUser reports whether any week matching the label already contains a
// section for the display name. This is the authoritative idempotency check
// used by Merge.
func (d *Document) HasUser(label, displayName string) bool {
	day, monthNum, err := ParseLabel(label)
	if err != nil {
		return false
	}
	for _, m := range d.Months {
		for _, w := range m.Weeks {
			if w.Day == day && w.Month == monthNum && w.User(displayName) != nil {
				return true
			}
		}
	}
	return false
}

// Rebuild concatenates every month section in calendar order descending.
// Section texts are emitted verbatim; anything not captured by Parse is
// dropped here.
func (d *Document) Rebuild() string {
	ordered := make([]*MonthSection, len(d.Months))
	copy(ordered, d.Months)

	// Insertion sort keeps the (rare) equal-key case stable.
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && monthIndex(ordered[j].Name) > monthIndex(ordered[j-1].Name); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	var b strings.Builder
	for _, m := range ordered {
		b.WriteString(m.Text)
	}
	return b.String()
}
