// Package backfill drives report generation across week periods: a single
// week for the normal submission path, or every week of a year with
// per-week failure isolation for the backfill path.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dusk-indust/warsync/internal/confluence"
	"github.com/dusk-indust/warsync/internal/document"
	"github.com/dusk-indust/warsync/internal/report"
	"github.com/dusk-indust/warsync/internal/toggl"
)

// ErrNoData signals that a period had no time entries. It is an expected
// condition for the backfill path, not a failure.
var ErrNoData = errors.New("backfill: no time records for period")

// TimeSource supplies raw time entries and the project map.
type TimeSource interface {
	TimeEntries(ctx context.Context, start, end time.Time) ([]toggl.TimeEntry, error)
	Projects(ctx context.Context) (map[int64]string, error)
}

// PageStore reads and writes the report page.
type PageStore interface {
	GetPage(ctx context.Context) (*confluence.PageSnapshot, error)
	UpdatePage(ctx context.Context, title, content string, currentVersion int) error
}

// Submitter generates and merges the report for one week period.
type Submitter struct {
	Source      TimeSource
	Store       PageStore
	DisplayName string
}

// SubmitWeek fetches entries for [start, end], formats them, and merges the
// result into a freshly fetched page snapshot. The week's identity (month
// heading and week-ending label) comes from end; start may have been clamped
// by the caller without affecting it.
//
// Returns ErrNoData when the period has no entries. The page write is
// skipped when the merge changes nothing.
func (s *Submitter) SubmitWeek(ctx context.Context, start, end time.Time, projects map[int64]string, replace bool) (document.Outcome, error) {
	if projects == nil {
		var err error
		projects, err = s.Source.Projects(ctx)
		if err != nil {
			return 0, fmt.Errorf("backfill: fetch projects: %w", err)
		}
	}

	entries, err := s.Source.TimeEntries(ctx, start, end)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, ErrNoData
	}

	snap, err := s.Store.GetPage(ctx)
	if err != nil {
		return 0, fmt.Errorf("backfill: fetch page: %w", err)
	}

	format := document.DetectDateFormat(snap.Content)
	merged, outcome := document.Merge(snap.Content, document.Request{
		Month:       end.Month().String(),
		WeekEnding:  format.Label(end),
		DisplayName: s.DisplayName,
		Body:        report.Format(entries, projects),
		Replace:     replace,
	})

	if outcome != document.OutcomeAlreadyExists && merged != snap.Content {
		if err := s.Store.UpdatePage(ctx, snap.Title, merged, snap.Version); err != nil {
			return 0, err
		}
	}
	return outcome, nil
}
