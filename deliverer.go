package mapscan

import "context"

// RecordService manages business records in the external record-keeping
// service. Implementations own transport concerns (authentication, rate
// limiting, property mapping); callers only see domain records.
type RecordService interface {
	// RecordExists reports whether a record with the exact name already
	// exists in the remote database.
	RecordExists(ctx context.Context, name string) (bool, error)

	// CreateRecord creates a new record for the business.
	CreateRecord(ctx context.Context, b *Business) error

	// UpdateRecordStatus moves the named record to a new pipeline status.
	// Returns ENOTFOUND if no record carries that exact name.
	UpdateRecordStatus(ctx context.Context, name, status string) error

	// FindRecordNamesByStatus lists the names of records currently in the
	// given pipeline status.
	FindRecordNamesByStatus(ctx context.Context, status string) ([]string, error)
}
