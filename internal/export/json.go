// Package export renders the report page and its coverage as JSON for
// machine consumption.
package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/dusk-indust/warsync/internal/confluence"
	"github.com/dusk-indust/warsync/internal/document"
	"github.com/dusk-indust/warsync/internal/status"
)

// PageExport is the top-level JSON export structure.
type PageExport struct {
	ExportedAt string          `json:"exportedAt"`
	Title      string          `json:"title"`
	Version    int             `json:"version"`
	Months     []MonthExport   `json:"months"`
	Coverage   *CoverageExport `json:"coverage,omitempty"`
}

// MonthExport is the outline of one month section.
type MonthExport struct {
	Name  string       `json:"name"`
	Weeks []WeekExport `json:"weeks"`
}

// WeekExport is the outline of one week section.
type WeekExport struct {
	Label string   `json:"label"`
	Users []string `json:"users,omitempty"`
}

// CoverageExport describes per-week coverage for one user and year.
type CoverageExport struct {
	Year    int                `json:"year"`
	User    string             `json:"user"`
	Covered int                `json:"covered"`
	Missing int                `json:"missing"`
	Weeks   []WeekStatusExport `json:"weeks"`
}

// WeekStatusExport is one coverage row.
type WeekStatusExport struct {
	Label   string `json:"label"`
	WeekEnd string `json:"weekEnd"`
	Covered bool   `json:"covered"`
}

// BuildPageExport outlines a page snapshot. cov may be nil when no coverage
// was requested.
func BuildPageExport(snap *confluence.PageSnapshot, cov *status.Coverage) *PageExport {
	out := &PageExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Title:      snap.Title,
		Version:    snap.Version,
	}

	doc := document.Parse(snap.Content)
	for _, m := range doc.Months {
		me := MonthExport{Name: m.Name}
		for _, w := range m.Weeks {
			we := WeekExport{Label: w.Label}
			for _, u := range w.Users {
				we.Users = append(we.Users, u.Name)
			}
			me.Weeks = append(me.Weeks, we)
		}
		out.Months = append(out.Months, me)
	}

	if cov != nil {
		ce := &CoverageExport{
			Year:    cov.Year,
			User:    cov.User,
			Covered: cov.Covered,
			Missing: cov.Missing,
		}
		for _, w := range cov.Weeks {
			ce.Weeks = append(ce.Weeks, WeekStatusExport{
				Label:   w.Label,
				WeekEnd: w.End.Format("2006-01-02"),
				Covered: w.Covered,
			})
		}
		out.Coverage = ce
	}

	return out
}

// WriteJSON writes v to w with two-space indentation.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
