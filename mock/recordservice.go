package mock

import (
	"context"

	"github.com/tlegrand/mapscan"
)

var _ mapscan.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of mapscan.RecordService.
type RecordService struct {
	RecordExistsFn            func(ctx context.Context, name string) (bool, error)
	CreateRecordFn            func(ctx context.Context, b *mapscan.Business) error
	UpdateRecordStatusFn      func(ctx context.Context, name, status string) error
	FindRecordNamesByStatusFn func(ctx context.Context, status string) ([]string, error)
}

func (s *RecordService) RecordExists(ctx context.Context, name string) (bool, error) {
	return s.RecordExistsFn(ctx, name)
}

func (s *RecordService) CreateRecord(ctx context.Context, b *mapscan.Business) error {
	return s.CreateRecordFn(ctx, b)
}

func (s *RecordService) UpdateRecordStatus(ctx context.Context, name, status string) error {
	return s.UpdateRecordStatusFn(ctx, name, status)
}

func (s *RecordService) FindRecordNamesByStatus(ctx context.Context, status string) ([]string, error) {
	return s.FindRecordNamesByStatusFn(ctx, status)
}
