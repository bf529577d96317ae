package mcptools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/warsync/internal/confluence"
	"github.com/dusk-indust/warsync/internal/toggl"
)

// Wednesday: the last complete week is Mon 10th to Fri 14th of March.
var testNow = time.Date(2025, time.March, 19, 9, 0, 0, 0, time.UTC)

type fakeSource struct {
	entries  []toggl.TimeEntry
	projects map[int64]string
	calls    int
}

func (f *fakeSource) TimeEntries(_ context.Context, start, end time.Time) ([]toggl.TimeEntry, error) {
	f.calls++
	if !start.Before(end) {
		return nil, nil
	}
	return f.entries, nil
}

func (f *fakeSource) Projects(context.Context) (map[int64]string, error) {
	if f.projects == nil {
		return map[int64]string{}, nil
	}
	return f.projects, nil
}

type fakeStore struct {
	snap confluence.PageSnapshot
	puts int
}

func (f *fakeStore) GetPage(context.Context) (*confluence.PageSnapshot, error) {
	snap := f.snap
	return &snap, nil
}

func (f *fakeStore) UpdatePage(_ context.Context, title, content string, currentVersion int) error {
	f.puts++
	f.snap.Title = title
	f.snap.Content = content
	f.snap.Version = currentVersion + 1
	return nil
}

func newTestService(source *fakeSource, store *fakeStore) *ReportService {
	svc := NewReportService(source, store, "Alice")
	svc.now = func() time.Time { return testNow }
	svc.backfillDelay = time.Nanosecond
	return svc
}

func TestPreviewReport_DefaultsToLastWeek(t *testing.T) {
	pid := int64(7)
	source := &fakeSource{
		entries:  []toggl.TimeEntry{{ID: 1, Description: "Fixed the flaky deploy", ProjectID: &pid}},
		projects: map[int64]string{7: "Platform"},
	}
	svc := newTestService(source, &fakeStore{})

	_, out, err := svc.PreviewReport(context.Background(), nil, PreviewReportInput{})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", out.WeekStart)
	assert.Equal(t, "2025-03-14", out.WeekEnd)
	assert.Equal(t, 1, out.EntryCount)
	assert.Contains(t, out.Body, "Platform")
	assert.Contains(t, out.Body, "Fixed the flaky deploy")
}

func TestPreviewReport_ExplicitWeekEnding(t *testing.T) {
	svc := newTestService(&fakeSource{}, &fakeStore{})

	_, out, err := svc.PreviewReport(context.Background(), nil, PreviewReportInput{WeekEnding: "2025-02-28"})
	require.NoError(t, err)
	assert.Equal(t, "2025-02-24", out.WeekStart)
	assert.Equal(t, "2025-02-28", out.WeekEnd)
}

func TestPreviewReport_BadDate(t *testing.T) {
	svc := newTestService(&fakeSource{}, &fakeStore{})

	_, _, err := svc.PreviewReport(context.Background(), nil, PreviewReportInput{WeekEnding: "28/02/2025"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestSubmitReport_WritesNewMonth(t *testing.T) {
	source := &fakeSource{entries: []toggl.TimeEntry{{ID: 1, Description: "work"}}}
	store := &fakeStore{snap: confluence.PageSnapshot{Title: "WARs", Version: 3}}
	svc := newTestService(source, store)

	_, out, err := svc.SubmitReport(context.Background(), nil, SubmitReportInput{})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-14", out.WeekEnd)
	assert.Equal(t, "added-month", out.Outcome)
	assert.True(t, out.Written)
	assert.Equal(t, 1, store.puts)
	assert.Contains(t, store.snap.Content, "<h2>w/e 14/03</h2>")
	assert.Contains(t, store.snap.Content, "<h3>Alice</h3>")
}

func TestSubmitReport_NoData(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(&fakeSource{}, store)

	_, out, err := svc.SubmitReport(context.Background(), nil, SubmitReportInput{})
	require.NoError(t, err, "an empty week is a result, not a tool failure")
	assert.Equal(t, "no-data", out.Outcome)
	assert.False(t, out.Written)
	assert.Zero(t, store.puts)
}

func TestSubmitReport_AlreadyExists(t *testing.T) {
	existing := `<h1>March</h1>
<h2>w/e 14/03</h2>
<h3>Alice</h3>
<p>done already</p>
`
	source := &fakeSource{entries: []toggl.TimeEntry{{ID: 1, Description: "work"}}}
	store := &fakeStore{snap: confluence.PageSnapshot{Title: "WARs", Content: existing, Version: 3}}
	svc := newTestService(source, store)

	_, out, err := svc.SubmitReport(context.Background(), nil, SubmitReportInput{})
	require.NoError(t, err)
	assert.Equal(t, "already-exists", out.Outcome)
	assert.False(t, out.Written)
	assert.Zero(t, store.puts)
}

func TestBackfillYear_InvalidYear(t *testing.T) {
	svc := newTestService(&fakeSource{}, &fakeStore{})

	_, _, err := svc.BackfillYear(context.Background(), nil, BackfillYearInput{Year: 2030})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "year must be")
}

func TestBackfillYear_Summary(t *testing.T) {
	source := &fakeSource{entries: []toggl.TimeEntry{{ID: 1, Description: "work"}}}
	store := &fakeStore{snap: confluence.PageSnapshot{Title: "WARs", Version: 1}}
	svc := newTestService(source, store)
	// 2025 up to March 19 has Fridays Jan 3 .. Mar 14.
	_, out, err := svc.BackfillYear(context.Background(), nil, BackfillYearInput{Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, 11, out.TotalWeeks)
	assert.Equal(t, 11, out.Processed)
	assert.Zero(t, out.Errored)
}

func TestGetCoverage(t *testing.T) {
	page := `<h1>March</h1>
<h2>w/e 14/03</h2>
<h3>Alice</h3>
<p>report</p>
`
	store := &fakeStore{snap: confluence.PageSnapshot{Content: page}}
	svc := newTestService(&fakeSource{}, store)

	_, out, err := svc.GetCoverage(context.Background(), nil, GetCoverageInput{Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, 2025, out.Year)
	assert.Equal(t, "Alice", out.User)
	assert.Equal(t, 1, out.Covered)
	require.NotEmpty(t, out.Weeks)
	assert.Equal(t, "2025-03-14", out.Weeks[0].WeekEnd)
	assert.True(t, out.Weeks[0].Covered)
}

func TestGetCoverage_ZeroYearDefaultsToCurrent(t *testing.T) {
	svc := newTestService(&fakeSource{}, &fakeStore{})

	_, out, err := svc.GetCoverage(context.Background(), nil, GetCoverageInput{})
	require.NoError(t, err)
	assert.Equal(t, 2025, out.Year)
}
