package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dusk-indust/warsync/internal/backfill"
)

// runBackfill walks every week of the year. The run itself always exits
// zero once it starts: per-week failures are counted in the summary, and a
// partial backfill is progress, not a failure.
func runBackfill(ctx context.Context, source backfill.TimeSource, store backfill.PageStore, displayName string, year int, replace bool) error {
	if year == 0 {
		year = time.Now().Year()
	}

	reporter := backfill.NewProgressReporter()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range reporter.Subscribe() {
			fmt.Println(backfill.FormatEvent(e))
		}
	}()

	runner := &backfill.Runner{
		Source:      source,
		Store:       store,
		DisplayName: displayName,
		Replace:     replace,
		OnProgress:  reporter.Emit,
	}

	fmt.Printf("Backfilling %d...\n", year)
	summary, err := runner.Run(ctx, year)
	reporter.Close()
	<-done
	if err != nil {
		// Setup failed before any week was attempted.
		return err
	}

	fmt.Println()
	fmt.Println(summary)
	return nil
}
