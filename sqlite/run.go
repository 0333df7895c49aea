package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/tlegrand/mapscan"
)

// Compile-time interface verification.
var _ mapscan.RunService = (*RunService)(nil)

// RunService implements mapscan.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// fingerprint identifies the same listing across runs: same name at the
// same address hashes to the same value.
func fingerprint(b *mapscan.Business) string {
	h := xxhash.Sum64String(b.Name + "\x00" + b.Address)
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(buf)
}

// CreateRun persists a run and its records.
func (s *RunService) CreateRun(ctx context.Context, run *mapscan.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, attempted, succeeded, failed, failures, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.Attempted, run.Succeeded, run.Failed,
		strings.Join(run.Failures, "\n"), run.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	for _, rec := range run.Records {
		rec.ID = uuid.New().String()
		rec.RunID = run.ID
		rec.Fingerprint = fingerprint(rec.Business)

		var rating sql.NullFloat64
		if rec.Business.Rating != nil {
			rating = sql.NullFloat64{Float64: *rec.Business.Rating, Valid: true}
		}

		_, err := s.db.ExecContext(ctx, `
			INSERT INTO records (id, run_id, position, fingerprint, delivered,
				name, rating, review_count, category, address, city, phone, website, open_status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, rec.ID, rec.RunID, rec.Position, rec.Fingerprint, boolToInt(rec.Delivered),
			rec.Business.Name, rating, rec.Business.ReviewCount, rec.Business.Category,
			rec.Business.Address, rec.Business.City, rec.Business.Phone,
			rec.Business.Website, rec.Business.OpenStatus)
		if err != nil {
			return err
		}
	}
	return nil
}

// FindRunByID retrieves a run and its records by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*mapscan.Run, error) {
	var run mapscan.Run
	var failures, createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, attempted, succeeded, failed, failures, created_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Source, &run.Attempted, &run.Succeeded, &run.Failed,
		&failures, &createdAt)

	if err == sql.ErrNoRows {
		return nil, mapscan.Errorf(mapscan.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if failures != "" {
		run.Failures = strings.Split(failures, "\n")
	}
	run.CreatedAt, err = scanTime(createdAt)
	if err != nil {
		return nil, err
	}

	records, err := s.findRecords(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	run.Records = records
	return &run, nil
}

// FindRuns retrieves runs matching the filter, newest first. Records are
// not loaded; use FindRunByID for a full run.
func (s *RunService) FindRuns(ctx context.Context, filter mapscan.RunFilter) ([]*mapscan.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source, attempted, succeeded, failed, failures, created_at FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}

	query.WriteString(" ORDER BY created_at DESC")
	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*mapscan.Run
	for rows.Next() {
		var run mapscan.Run
		var failures, createdAt string

		if err := rows.Scan(&run.ID, &run.Source, &run.Attempted, &run.Succeeded,
			&run.Failed, &failures, &createdAt); err != nil {
			return nil, err
		}
		if failures != "" {
			run.Failures = strings.Split(failures, "\n")
		}
		run.CreatedAt, err = scanTime(createdAt)
		if err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// MarkDelivered flags a staged record as delivered.
func (s *RunService) MarkDelivered(ctx context.Context, recordID string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE records SET delivered = 1 WHERE id = ?`, recordID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapscan.Errorf(mapscan.ENOTFOUND, "record not found")
	}
	return nil
}

// DeleteRun permanently removes a run and its records.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapscan.Errorf(mapscan.ENOTFOUND, "run not found")
	}
	return nil
}

func (s *RunService) findRecords(ctx context.Context, runID string) ([]*mapscan.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, position, fingerprint, delivered,
			name, rating, review_count, category, address, city, phone, website, open_status
		FROM records
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*mapscan.Record
	for rows.Next() {
		rec := &mapscan.Record{Business: &mapscan.Business{}}
		var rating sql.NullFloat64
		var delivered int

		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Position, &rec.Fingerprint, &delivered,
			&rec.Business.Name, &rating, &rec.Business.ReviewCount, &rec.Business.Category,
			&rec.Business.Address, &rec.Business.City, &rec.Business.Phone,
			&rec.Business.Website, &rec.Business.OpenStatus); err != nil {
			return nil, err
		}
		rec.Delivered = delivered != 0
		if rating.Valid {
			v := rating.Float64
			rec.Business.Rating = &v
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// scanTime converts a stored RFC3339 timestamp back into a time.Time.
func scanTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return t, nil
}
