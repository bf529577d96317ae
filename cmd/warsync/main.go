package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dusk-indust/warsync/internal/backfill"
	"github.com/dusk-indust/warsync/internal/config"
	"github.com/dusk-indust/warsync/internal/confluence"
	"github.com/dusk-indust/warsync/internal/toggl"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Backfill bool
	Year     int
	Current  bool
	Replace  bool
	Status   bool
	JSON     bool
	ServeMCP bool
	Addr     string
	Verbose  bool
	Version  bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("warsync", flag.ContinueOnError)
	fs.BoolVar(&flags.Backfill, "backfill", false, "submit every missing week of a year instead of one week")
	fs.IntVar(&flags.Year, "year", 0, "year to backfill or report on (default: current year)")
	fs.BoolVar(&flags.Current, "current", false, "submit the in-progress week instead of the last complete one")
	fs.BoolVar(&flags.Replace, "replace", false, "overwrite weeks that already have a report")
	fs.BoolVar(&flags.Status, "status", false, "print week coverage without writing anything")
	fs.BoolVar(&flags.JSON, "json", false, "with -status, emit the page outline and coverage as JSON")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as MCP server exposing the report tools")
	fs.StringVar(&flags.Addr, "addr", ":8917", "listen address for -serve-mcp")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	if cfg.Verbose {
		flags.Verbose = true
	}
	log.SetFlags(0)
	if !flags.Verbose {
		log.SetOutput(nilWriter{})
	}

	source := toggl.NewClient(cfg.TogglAPIToken, cfg.TogglWorkspaceID)
	store := confluence.NewClient(cfg.ConfluenceBaseURL, cfg.ConfluenceUsername, cfg.ConfluenceAPIToken, cfg.ConfluencePageID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	submitter := &backfill.Submitter{Source: source, Store: store, DisplayName: cfg.DisplayName}

	switch {
	case flags.ServeMCP:
		return serveMCP(ctx, source, store, cfg.DisplayName, flags.Addr)
	case flags.Status:
		return runStatus(ctx, store, cfg.DisplayName, flags.Year, flags.JSON)
	case flags.Backfill:
		return runBackfill(ctx, source, store, cfg.DisplayName, flags.Year, flags.Replace)
	default:
		return runSubmit(ctx, submitter, flags.Current, flags.Replace)
	}
}

// nilWriter discards verbose logging when -verbose is off.
type nilWriter struct{}

func (nilWriter) Write(p []byte) (int, error) { return len(p), nil }
