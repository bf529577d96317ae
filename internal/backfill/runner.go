package backfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/warsync/internal/calendar"
	"github.com/dusk-indust/warsync/internal/confluence"
	"github.com/dusk-indust/warsync/internal/document"
	"github.com/dusk-indust/warsync/internal/toggl"
)

// DefaultDelay is the courtesy pause between consecutive page writes.
const DefaultDelay = 2 * time.Second

// Summary is the terminal outcome of one backfill run.
type Summary struct {
	TotalWeeks int
	Processed  int
	Replaced   int
	Skipped    int
	NoData     int
	Errored    int
}

// String renders the summary block printed at the end of a run.
func (s *Summary) String() string {
	out := fmt.Sprintf("Total weeks found: %d\n", s.TotalWeeks)
	out += fmt.Sprintf("Weeks successfully processed: %d\n", s.Processed)
	if s.Replaced > 0 {
		out += fmt.Sprintf("Weeks with replaced content: %d\n", s.Replaced)
	}
	out += fmt.Sprintf("Weeks skipped (already existed): %d\n", s.Skipped)
	out += fmt.Sprintf("Weeks with no time data: %d\n", s.NoData)
	out += fmt.Sprintf("Weeks with errors: %d", s.Errored)
	return out
}

// Runner walks every week of a year, newest first, submitting each missing
// report. Weeks are processed strictly sequentially: the merge idempotency
// check must observe the writes of earlier iterations, and the page API is
// throttled between writes.
type Runner struct {
	Source      TimeSource
	Store       PageStore
	DisplayName string

	// Replace overwrites weeks that already have a report.
	Replace bool

	// Delay is the pause after each page write; DefaultDelay when zero.
	Delay time.Duration

	// OnProgress, when non-nil, is called synchronously with per-week events.
	OnProgress func(Event)

	// Now is the reference clock; time.Now when nil.
	Now func() time.Time
}

// Run backfills the given year. Failures are isolated per week and counted;
// the run itself only fails when the initial project-map or page fetch does,
// since nothing can proceed without them.
//
// Processing newest-first means the time source's "requested period predates
// account history" boundary is discovered early and applied proactively to
// every older week: their start dates are clamped to the learned boundary
// instead of re-triggering the same rejection.
func (r *Runner) Run(ctx context.Context, year int) (*Summary, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	weeks := calendar.WeeksOfYear(year, now())
	summary := &Summary{TotalWeeks: len(weeks)}
	if len(weeks) == 0 {
		return summary, nil
	}

	// The project map and the pre-check snapshot are independent; fetch
	// them together before the sequential loop starts.
	var (
		projects map[int64]string
		snap     *confluence.PageSnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = r.Source.Projects(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap, err = r.Store.GetPage(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("backfill: run setup: %w", err)
	}

	// The pre-check snapshot is fetched once and goes stale as the run
	// writes; it only filters weeks that already existed before the run.
	// The authoritative check happens inside each merge against a fresh
	// snapshot.
	precheck := document.Parse(snap.Content)
	format := document.DetectDateFormat(snap.Content)

	submitter := &Submitter{Source: r.Source, Store: r.Store, DisplayName: r.DisplayName}
	delay := r.Delay
	if delay == 0 {
		delay = DefaultDelay
	}

	// earliestAllowed is the boundary learned from the time source mid-run;
	// zero until a range rejection reveals it.
	var earliestAllowed time.Time

	for i := len(weeks) - 1; i >= 0; i-- {
		week := weeks[i]
		label := format.Label(week.End)
		index := len(weeks) - i

		r.emit(Event{Label: label, Index: index, Total: len(weeks), Status: StatusWorking})

		if precheck.HasUser(label, r.DisplayName) && !r.Replace {
			summary.Skipped++
			r.emit(Event{Label: label, Index: index, Total: len(weeks), Status: StatusSkipped})
			continue
		}

		start := clampStart(week.Start, earliestAllowed)
		outcome, err := submitter.SubmitWeek(ctx, start, week.End, projects, r.Replace)

		var rerr *toggl.RangeError
		if errors.As(err, &rerr) {
			// Learn the boundary, clamp, and retry this week once. All
			// remaining (older) weeks are clamped up front.
			earliestAllowed = rerr.EarliestAllowed
			start = clampStart(week.Start, earliestAllowed)
			outcome, err = submitter.SubmitWeek(ctx, start, week.End, projects, r.Replace)
		}

		switch {
		case errors.Is(err, ErrNoData):
			summary.NoData++
			r.emit(Event{Label: label, Index: index, Total: len(weeks), Status: StatusNoData})
			continue
		case err != nil:
			summary.Errored++
			r.emit(Event{Label: label, Index: index, Total: len(weeks), Status: StatusFailed, Message: err.Error()})
			continue
		}

		switch outcome {
		case document.OutcomeAlreadyExists:
			// The stale pre-check missed it; the merge's own check caught it.
			summary.Skipped++
			r.emit(Event{Label: label, Index: index, Total: len(weeks), Status: StatusSkipped})
			continue
		case document.OutcomeReplaced:
			summary.Replaced++
			r.emit(Event{Label: label, Index: index, Total: len(weeks), Status: StatusReplaced})
		default:
			summary.Processed++
			r.emit(Event{Label: label, Index: index, Total: len(weeks), Status: StatusComplete})
		}

		// Courtesy pause between consecutive remote writes.
		if i > 0 {
			time.Sleep(delay)
		}
	}

	return summary, nil
}

func (r *Runner) emit(e Event) {
	if r.OnProgress != nil {
		r.OnProgress(e)
	}
}

// clampStart lifts start to the earliest allowed boundary once one is known.
func clampStart(start, earliest time.Time) time.Time {
	if !earliest.IsZero() && start.Before(earliest) {
		return earliest
	}
	return start
}
