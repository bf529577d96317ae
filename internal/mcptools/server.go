// Package mcptools exposes report submission over the Model Context
// Protocol, so agents can preview, submit, and backfill reports with the
// same semantics as the CLI.
package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewReportMCPServer creates an MCP server with the 4 report tools
// registered: preview_report, submit_report, backfill_year, and
// get_coverage.
func NewReportMCPServer(svc *ReportService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "warsync",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview_report",
		Description: "Format the work activity report for a week from tracked time entries, without writing to the page.",
	}, svc.PreviewReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "submit_report",
		Description: "Generate a week's report and merge it into the shared page. Idempotent: an already-submitted week is left untouched unless replace is set.",
	}, svc.SubmitReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "backfill_year",
		Description: "Walk every completed week of a year, newest first, submitting each missing report. Per-week failures are counted, not fatal.",
	}, svc.BackfillYear)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_coverage",
		Description: "Report which weeks of a year already have a submitted report on the page.",
	}, svc.GetCoverage)

	return server
}

// RunMCPServer starts an HTTP server exposing the report tools.
func RunMCPServer(ctx context.Context, svc *ReportService, addr string) error {
	server := NewReportMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
