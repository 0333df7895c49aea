package main

import (
	"fmt"
	"path/filepath"

	"github.com/tlegrand/mapscan"
	"github.com/tlegrand/mapscan/deliver"
)

// Run executes the push command.
func (c *PushCmd) Run(deps *Dependencies) error {
	if deps.Records == nil {
		return fmt.Errorf("notion credentials not configured")
	}

	var staged []*mapscan.Record
	switch {
	case c.RunID != "":
		if c.File != "" {
			return fmt.Errorf("pass either FILE or --run, not both")
		}
		run, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", mapscan.ErrorMessage(err))
			return err
		}
		for _, rec := range run.Records {
			if rec.Delivered {
				continue
			}
			staged = append(staged, rec)
		}
		if len(staged) == 0 {
			fmt.Fprintf(deps.Stdout, "Run %s is fully delivered.\n", run.ID)
			return nil
		}

	case c.File != "":
		report, err := extractFile(deps, c.File, c.City, c.Category)
		if err != nil {
			return err
		}
		printSummary(deps, report)

		if len(report.Records) == 0 {
			fmt.Fprintln(deps.Stdout, "Nothing to deliver.")
			return nil
		}

		run := mapscan.NewRun(filepath.Base(c.File), report)
		if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", mapscan.ErrorMessage(err))
			return err
		}
		staged = run.Records

	default:
		return fmt.Errorf("pass a FILE to extract or --run to re-push a staged run")
	}

	businesses := make([]*mapscan.Business, len(staged))
	for i, rec := range staged {
		businesses[i] = rec.Business
	}

	d := deliver.New(deps.Records)
	result, err := d.DeliverAll(deps.Ctx, businesses, func(event deliver.ProgressEvent) {
		switch event.Type {
		case deliver.ProgressCreated:
			fmt.Fprintf(deps.Stdout, "created: %s\n", event.Name)
			if err := deps.Runs.MarkDelivered(deps.Ctx, staged[event.Index].ID); err != nil {
				fmt.Fprintf(deps.Stderr, "warning: could not flag %s as delivered: %s\n",
					event.Name, mapscan.ErrorMessage(err))
			}
		case deliver.ProgressDuplicate:
			fmt.Fprintf(deps.Stdout, "skipped (duplicate): %s\n", event.Name)
		case deliver.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "failed: %s: %s\n", event.Name, mapscan.ErrorMessage(event.Error))
		}
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Delivered %d of %d records (%d duplicates, %d failed)\n",
		result.Created, result.Total, result.Duplicates, result.Failed)
	return nil
}
