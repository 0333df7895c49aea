package main

import (
	"fmt"

	"github.com/tlegrand/mapscan"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := mapscan.RunFilter{Limit: c.Limit}
	if c.Source != "" {
		filter.Source = &c.Source
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mapscan.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'mapscan extract' to stage one.")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d/%d extracted  %s\n",
			run.ID, run.Source, run.Succeeded, run.Attempted,
			run.CreatedAt.Format("2006-01-02 15:04"))
	}

	return nil
}
