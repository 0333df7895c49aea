package mapscan

import (
	"context"
	"time"
)

// Run represents one staged extraction run: a report produced from a single
// document, persisted so it can be reviewed and pushed later.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Attempted int       `json:"attempted"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Failures  []string  `json:"failures,omitempty"`
	Records   []*Record `json:"records,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Source == "" {
		return Errorf(EINVALID, "run source required")
	}
	return nil
}

// Record is a staged business record: the extracted Business plus storage
// bookkeeping. Fingerprint identifies the same listing across runs.
type Record struct {
	ID          string    `json:"id"`
	RunID       string    `json:"runId"`
	Position    int       `json:"position"`
	Fingerprint string    `json:"fingerprint"`
	Delivered   bool      `json:"delivered"`
	Business    *Business `json:"business"`
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID     *string `json:"id"`
	Source *string `json:"source"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RunService represents a service for managing staged extraction runs.
type RunService interface {
	// CreateRun persists a report as a new run together with its records.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run and its records by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first, without
	// their records.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// MarkDelivered flags a staged record as delivered.
	// Returns ENOTFOUND if the record does not exist.
	MarkDelivered(ctx context.Context, recordID string) error

	// DeleteRun permanently removes a run and its records.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// NewRun builds a Run from an extraction report.
func NewRun(source string, report *Report) *Run {
	run := &Run{
		Source:    source,
		Attempted: report.Attempted,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
		Failures:  report.Failures,
	}
	for i, b := range report.Records {
		run.Records = append(run.Records, &Record{
			Position: i,
			Business: b,
		})
	}
	return run
}
