package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tlegrand/mapscan"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	report, err := extractFile(deps, c.File, c.City, c.Category)
	if err != nil {
		return err
	}

	if report.Attempted == 0 {
		printSummary(deps, report)
		return nil
	}

	run := mapscan.NewRun(filepath.Base(c.File), report)
	if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mapscan.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report.Records); err != nil {
			return err
		}
	} else {
		for _, b := range report.Records {
			fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", b.Name, b.City, b.Category)
		}
	}

	printSummary(deps, report)
	fmt.Fprintf(deps.Stdout, "Staged as run %s\n", run.ID)
	return nil
}

// extractFile reads a saved results page and extracts its listings,
// applying command-line overrides on top of configured defaults.
func extractFile(deps *Dependencies, file, city, category string) (*mapscan.Report, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", file, err)
	}

	ov := mapscan.Overrides{
		City:     deps.Config.Defaults.City,
		Category: deps.Config.Defaults.Category,
	}
	if city != "" {
		ov.City = city
	}
	if category != "" {
		ov.Category = category
	}

	return deps.Extractor.ExtractAll(string(content), ov), nil
}

func printSummary(deps *Dependencies, report *mapscan.Report) {
	fmt.Fprintf(deps.Stdout, "Extracted %d of %d listings", report.Succeeded, report.Attempted)
	if report.Failed > 0 {
		fmt.Fprintf(deps.Stdout, " (%d failed)", report.Failed)
	}
	fmt.Fprintln(deps.Stdout)

	for _, reason := range report.Failures {
		fmt.Fprintf(deps.Stderr, "failed: %s\n", reason)
	}
	if report.Attempted == 0 && len(report.Diagnostics) > 0 {
		fmt.Fprintln(deps.Stderr, "No listing markers found. Classes present in the document:")
		for _, class := range report.Diagnostics {
			fmt.Fprintf(deps.Stderr, "  %s\n", class)
		}
	}
}
