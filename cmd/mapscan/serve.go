package main

import (
	"fmt"

	"github.com/tlegrand/mapscan/deliver"
	mapshttp "github.com/tlegrand/mapscan/http"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	server := &mapshttp.Server{
		Addr:      c.Addr,
		Extractor: deps.Extractor,
		Runs:      deps.Runs,
		Logger:    deps.Logger,
	}
	if deps.Records != nil {
		server.Deliverer = deliver.New(deps.Records)
	}

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", c.Addr)
	return server.ListenAndServe(deps.Ctx)
}
