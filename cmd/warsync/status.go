package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dusk-indust/warsync/internal/backfill"
	"github.com/dusk-indust/warsync/internal/export"
	"github.com/dusk-indust/warsync/internal/status"
)

// runStatus prints week coverage for a year, or the full page outline as
// JSON when requested. Read-only.
func runStatus(ctx context.Context, store backfill.PageStore, displayName string, year int, asJSON bool) error {
	now := time.Now()
	if year == 0 {
		year = now.Year()
	}

	snap, err := store.GetPage(ctx)
	if err != nil {
		return err
	}
	cov := status.ForYear(snap.Content, displayName, year, now)

	if asJSON {
		return export.WriteJSON(os.Stdout, export.BuildPageExport(snap, cov))
	}

	fmt.Println(cov)
	return nil
}
