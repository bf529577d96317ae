package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dusk-indust/warsync/internal/backfill"
	"github.com/dusk-indust/warsync/internal/calendar"
)

// runSubmit handles the default single-week path. Unlike backfill, any
// failure here is fatal: there is exactly one week at stake and the caller
// needs to know it did not land.
func runSubmit(ctx context.Context, submitter *backfill.Submitter, current, replace bool) error {
	now := time.Now()

	var week calendar.WeekRange
	if current {
		week = calendar.CurrentWeek(now)
	} else {
		week = calendar.LastWeek(now)
	}
	log.Printf("submitting week %s to %s",
		week.Start.Format("2006-01-02"), week.End.Format("2006-01-02"))

	outcome, err := submitter.SubmitWeek(ctx, week.Start, week.End, nil, replace)
	if errors.Is(err, backfill.ErrNoData) {
		fmt.Printf("No time records found for w/e %s; nothing submitted.\n", week.EndLabel())
		return nil
	}
	if err != nil {
		return err
	}

	switch {
	case !outcome.Written():
		fmt.Printf("Report for w/e %s already exists; nothing to do.\n", week.EndLabel())
	default:
		fmt.Printf("Submitted report for w/e %s (%s).\n", week.EndLabel(), outcome)
	}
	return nil
}
