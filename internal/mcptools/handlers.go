package mcptools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/warsync/internal/backfill"
	"github.com/dusk-indust/warsync/internal/calendar"
	"github.com/dusk-indust/warsync/internal/report"
	"github.com/dusk-indust/warsync/internal/status"
)

// ReportService handles MCP tool calls. It wraps the same time source and
// page store the CLI uses, so tool calls and command-line runs behave
// identically.
type ReportService struct {
	source      backfill.TimeSource
	store       backfill.PageStore
	displayName string
	now         func() time.Time

	// backfillDelay overrides the runner's inter-write pause when non-zero.
	backfillDelay time.Duration
}

// NewReportService creates a ReportService with the given source and store.
func NewReportService(source backfill.TimeSource, store backfill.PageStore, displayName string) *ReportService {
	return &ReportService{
		source:      source,
		store:       store,
		displayName: displayName,
		now:         time.Now,
	}
}

// resolveWeek picks the week a preview or submit call refers to.
func (s *ReportService) resolveWeek(weekEnding string, current bool) (calendar.WeekRange, error) {
	if weekEnding != "" {
		end, err := time.Parse("2006-01-02", weekEnding)
		if err != nil {
			return calendar.WeekRange{}, fmt.Errorf("weekEnding must be YYYY-MM-DD, got %q", weekEnding)
		}
		return calendar.WeekEnding(end), nil
	}
	if current {
		return calendar.CurrentWeek(s.now()), nil
	}
	return calendar.LastWeek(s.now()), nil
}

// PreviewReport formats the report for a week without writing anything.
func (s *ReportService) PreviewReport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PreviewReportInput,
) (*mcp.CallToolResult, PreviewReportOutput, error) {
	week, err := s.resolveWeek(input.WeekEnding, input.Current)
	if err != nil {
		return nil, PreviewReportOutput{}, err
	}

	projects, err := s.source.Projects(ctx)
	if err != nil {
		return nil, PreviewReportOutput{}, fmt.Errorf("fetch projects: %w", err)
	}
	entries, err := s.source.TimeEntries(ctx, week.Start, week.End)
	if err != nil {
		return nil, PreviewReportOutput{}, fmt.Errorf("fetch time entries: %w", err)
	}

	return nil, PreviewReportOutput{
		WeekStart:  week.Start.Format("2006-01-02"),
		WeekEnd:    week.End.Format("2006-01-02"),
		EntryCount: len(entries),
		Body:       report.Format(entries, projects),
	}, nil
}

// SubmitReport generates and merges one week's report into the page.
func (s *ReportService) SubmitReport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SubmitReportInput,
) (*mcp.CallToolResult, SubmitReportOutput, error) {
	week, err := s.resolveWeek(input.WeekEnding, input.Current)
	if err != nil {
		return nil, SubmitReportOutput{}, err
	}

	submitter := &backfill.Submitter{
		Source:      s.source,
		Store:       s.store,
		DisplayName: s.displayName,
	}
	weekEnd := week.End.Format("2006-01-02")

	outcome, err := submitter.SubmitWeek(ctx, week.Start, week.End, nil, input.Replace)
	if errors.Is(err, backfill.ErrNoData) {
		return nil, SubmitReportOutput{WeekEnd: weekEnd, Outcome: "no-data"}, nil
	}
	if err != nil {
		return nil, SubmitReportOutput{}, err
	}

	return nil, SubmitReportOutput{
		WeekEnd: weekEnd,
		Outcome: outcome.String(),
		Written: outcome.Written(),
	}, nil
}

// BackfillYear walks every week of a year, submitting each missing report.
func (s *ReportService) BackfillYear(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BackfillYearInput,
) (*mcp.CallToolResult, BackfillYearOutput, error) {
	if input.Year < 2000 || input.Year > s.now().Year() {
		return nil, BackfillYearOutput{}, fmt.Errorf("year must be 2000-%d, got %d", s.now().Year(), input.Year)
	}

	runner := &backfill.Runner{
		Source:      s.source,
		Store:       s.store,
		DisplayName: s.displayName,
		Replace:     input.Replace,
		Delay:       s.backfillDelay,
		Now:         s.now,
	}
	summary, err := runner.Run(ctx, input.Year)
	if err != nil {
		return nil, BackfillYearOutput{}, err
	}

	return nil, BackfillYearOutput{
		TotalWeeks: summary.TotalWeeks,
		Processed:  summary.Processed,
		Replaced:   summary.Replaced,
		Skipped:    summary.Skipped,
		NoData:     summary.NoData,
		Errored:    summary.Errored,
	}, nil
}

// GetCoverage reports which weeks of a year already carry a report.
func (s *ReportService) GetCoverage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetCoverageInput,
) (*mcp.CallToolResult, GetCoverageOutput, error) {
	year := input.Year
	if year == 0 {
		year = s.now().Year()
	}

	snap, err := s.store.GetPage(ctx)
	if err != nil {
		return nil, GetCoverageOutput{}, fmt.Errorf("fetch page: %w", err)
	}

	cov := status.ForYear(snap.Content, s.displayName, year, s.now())
	out := GetCoverageOutput{
		Year:    cov.Year,
		User:    cov.User,
		Covered: cov.Covered,
		Missing: cov.Missing,
	}
	for _, w := range cov.Weeks {
		out.Weeks = append(out.Weeks, WeekCoverage{
			Label:   w.Label,
			WeekEnd: w.End.Format("2006-01-02"),
			Covered: w.Covered,
		})
	}
	return nil, out, nil
}
