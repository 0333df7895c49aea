package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/tlegrand/mapscan"
)

// Ensure LoggingRecordService implements mapscan.RecordService.
var _ mapscan.RecordService = (*LoggingRecordService)(nil)

// LoggingRecordService wraps a RecordService with per-call logging.
type LoggingRecordService struct {
	next   mapscan.RecordService
	logger *slog.Logger
}

// NewLoggingRecordService creates a new LoggingRecordService.
func NewLoggingRecordService(next mapscan.RecordService, logger *slog.Logger) *LoggingRecordService {
	return &LoggingRecordService{next: next, logger: logger}
}

// RecordExists delegates to the wrapped service and logs the outcome.
func (s *LoggingRecordService) RecordExists(ctx context.Context, name string) (bool, error) {
	exists, err := s.next.RecordExists(ctx, name)
	if err != nil {
		s.logger.Error("duplicate check failed", "name", name, "error", err)
		return exists, err
	}
	s.logger.Debug("duplicate check", "name", name, "exists", exists)
	return exists, nil
}

// CreateRecord delegates to the wrapped service and logs the outcome.
func (s *LoggingRecordService) CreateRecord(ctx context.Context, b *mapscan.Business) error {
	begin := time.Now()
	if err := s.next.CreateRecord(ctx, b); err != nil {
		s.logger.Error("record creation failed", "name", b.Name, "error", err)
		return err
	}
	s.logger.Info("record created",
		"name", b.Name,
		"city", b.City,
		"duration", time.Since(begin),
	)
	return nil
}

// UpdateRecordStatus delegates to the wrapped service and logs the outcome.
func (s *LoggingRecordService) UpdateRecordStatus(ctx context.Context, name, status string) error {
	if err := s.next.UpdateRecordStatus(ctx, name, status); err != nil {
		s.logger.Error("status update failed", "name", name, "status", status, "error", err)
		return err
	}
	s.logger.Info("status updated", "name", name, "status", status)
	return nil
}

// FindRecordNamesByStatus delegates to the wrapped service and logs the outcome.
func (s *LoggingRecordService) FindRecordNamesByStatus(ctx context.Context, status string) ([]string, error) {
	names, err := s.next.FindRecordNamesByStatus(ctx, status)
	if err != nil {
		s.logger.Error("status query failed", "status", status, "error", err)
		return nil, err
	}
	s.logger.Debug("status query", "status", status, "count", len(names))
	return names, nil
}
