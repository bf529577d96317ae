package main

import (
	"context"
	"fmt"

	"github.com/dusk-indust/warsync/internal/backfill"
	"github.com/dusk-indust/warsync/internal/mcptools"
)

// serveMCP blocks until the context is cancelled.
func serveMCP(ctx context.Context, source backfill.TimeSource, store backfill.PageStore, displayName, addr string) error {
	svc := mcptools.NewReportService(source, store, displayName)
	fmt.Printf("MCP server listening on %s\n", addr)
	return mcptools.RunMCPServer(ctx, svc, addr)
}
