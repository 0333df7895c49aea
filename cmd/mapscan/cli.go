package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/tlegrand/mapscan"
	"github.com/tlegrand/mapscan/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	DB        *sqlite.DB
	Config    *Config
	Logger    *slog.Logger
	Extractor mapscan.ListingExtractor
	Runs      mapscan.RunService
	Records   mapscan.RecordService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Extract ExtractCmd `cmd:"" help:"Extract listings from a saved results page and stage them"`
	Push    PushCmd    `cmd:"" help:"Deliver extracted listings to Notion"`
	Runs    RunsCmd    `cmd:"" help:"List staged extraction runs"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a staged run and its records"`
	Status  StatusCmd  `cmd:"" help:"Update or list prospection statuses in Notion"`
	Serve   ServeCmd   `cmd:"" help:"Start the upload server"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	File     string `arg:"" help:"Saved results page (.html)"`
	City     string `short:"c" help:"City override for every record"`
	Category string `short:"C" help:"Category override for every record"`
	JSON     bool   `help:"Print extracted records as JSON"`
}

// PushCmd is the "push" subcommand. It delivers either a freshly extracted
// page or the undelivered records of a previously staged run.
type PushCmd struct {
	File     string `arg:"" optional:"" help:"Saved results page (.html)"`
	RunID    string `name:"run" help:"Re-push a staged run by ID instead of extracting"`
	City     string `short:"c" help:"City override for every record"`
	Category string `short:"C" help:"Category override for every record"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Source string `help:"Filter by source filename"`
	Limit  int    `default:"20" help:"Maximum number of runs to show"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID string `arg:"" help:"Run ID"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Name string `arg:"" optional:"" help:"Business name"`
	Set  string `help:"New prospection status for the named business"`
	List string `help:"List businesses currently in this status"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" help:"Address to listen on"`
}
