package mock

import (
	"context"

	"github.com/tlegrand/mapscan"
)

var _ mapscan.RunService = (*RunService)(nil)

// RunService is a mock implementation of mapscan.RunService.
type RunService struct {
	CreateRunFn     func(ctx context.Context, run *mapscan.Run) error
	FindRunByIDFn   func(ctx context.Context, id string) (*mapscan.Run, error)
	FindRunsFn      func(ctx context.Context, filter mapscan.RunFilter) ([]*mapscan.Run, error)
	MarkDeliveredFn func(ctx context.Context, recordID string) error
	DeleteRunFn     func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, run *mapscan.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*mapscan.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter mapscan.RunFilter) ([]*mapscan.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) MarkDelivered(ctx context.Context, recordID string) error {
	return s.MarkDeliveredFn(ctx, recordID)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}
