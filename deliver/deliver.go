// Package deliver provides batch delivery orchestration. It hands extracted
// records one-by-one to the external record-keeping service, skipping
// duplicates and keeping per-record failures from aborting the batch.
package deliver

import (
	"context"

	"github.com/tlegrand/mapscan"
	"github.com/tlegrand/mapscan/bloom"
)

// Deliverer pushes business records to a record-keeping service.
type Deliverer struct {
	Records mapscan.RecordService

	// seen prefilters names already handled this session, so overlapping
	// documents pushed back-to-back skip the remote duplicate check.
	seen *bloom.Filter
}

// New creates a Deliverer backed by the given record service.
func New(records mapscan.RecordService) *Deliverer {
	return &Deliverer{
		Records: records,
		seen:    bloom.NewFilter(10000, 0.001),
	}
}

// Result holds the outcome of a delivery operation.
type Result struct {
	Total      int
	Created    int
	Duplicates int
	Failed     int
}

// ProgressType indicates the outcome reported for one record.
type ProgressType int

const (
	ProgressCreated ProgressType = iota
	ProgressDuplicate
	ProgressFailed
)

// ProgressEvent reports the outcome of delivering one record. Index is the
// record's position in the batch, so callers can tie events back to staged
// records.
type ProgressEvent struct {
	Type  ProgressType
	Index int
	Name  string
	Error error
}

// ProgressFunc is a callback for reporting delivery progress.
type ProgressFunc func(event ProgressEvent)

// DeliverAll pushes records in order. Duplicates (by exact name) are
// skipped, failures are counted and reported but do not stop the batch.
// It returns early only when the context is cancelled.
func (d *Deliverer) DeliverAll(ctx context.Context, records []*mapscan.Business, progress ProgressFunc) (*Result, error) {
	result := &Result{Total: len(records)}

	notify := func(event ProgressEvent) {
		if progress != nil {
			progress(event)
		}
	}

	for i, b := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if d.seen.Test(b.Name) {
			result.Duplicates++
			notify(ProgressEvent{Type: ProgressDuplicate, Index: i, Name: b.Name})
			continue
		}

		exists, err := d.Records.RecordExists(ctx, b.Name)
		if err != nil {
			result.Failed++
			notify(ProgressEvent{Type: ProgressFailed, Index: i, Name: b.Name, Error: err})
			continue
		}
		if exists {
			result.Duplicates++
			d.seen.Add(b.Name)
			notify(ProgressEvent{Type: ProgressDuplicate, Index: i, Name: b.Name})
			continue
		}

		if err := d.Records.CreateRecord(ctx, b); err != nil {
			result.Failed++
			notify(ProgressEvent{Type: ProgressFailed, Index: i, Name: b.Name, Error: err})
			continue
		}
		result.Created++
		d.seen.Add(b.Name)
		notify(ProgressEvent{Type: ProgressCreated, Index: i, Name: b.Name})
	}

	return result, nil
}
