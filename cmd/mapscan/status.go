package main

import (
	"fmt"

	"github.com/tlegrand/mapscan"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	if deps.Records == nil {
		return fmt.Errorf("notion credentials not configured")
	}

	if c.List != "" {
		names, err := deps.Records.FindRecordNamesByStatus(deps.Ctx, c.List)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", mapscan.ErrorMessage(err))
			return err
		}
		if len(names) == 0 {
			fmt.Fprintf(deps.Stdout, "No businesses with status %q.\n", c.List)
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(deps.Stdout, name)
		}
		return nil
	}

	if c.Name == "" || c.Set == "" {
		return fmt.Errorf("pass NAME with --set, or --list STATUS")
	}

	if err := deps.Records.UpdateRecordStatus(deps.Ctx, c.Name, c.Set); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mapscan.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s is now %q\n", c.Name, c.Set)
	return nil
}
