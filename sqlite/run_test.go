package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tlegrand/mapscan"
	"github.com/tlegrand/mapscan/sqlite"
)

func testReport() *mapscan.Report {
	rating := 4.5
	return &mapscan.Report{
		Records: []*mapscan.Business{
			{
				Name:        "Boulangerie Martin",
				Rating:      &rating,
				ReviewCount: 128,
				Category:    "Boulangerie",
				Address:     "12 Rue de la Paix, 75002 Paris",
				City:        "Paris",
				Phone:       "01 42 60 00 00",
				Website:     "https://boulangerie-martin.fr",
				OpenStatus:  "Fermé",
			},
			{
				Name:        "Salon Durand",
				Category:    mapscan.Unspecified,
				Address:     mapscan.Unspecified,
				City:        mapscan.Unspecified,
				Phone:       mapscan.Unspecified,
				Website:     mapscan.Unspecified,
				OpenStatus:  mapscan.Unspecified,
				ReviewCount: 0,
			},
		},
		Attempted: 3,
		Succeeded: 2,
		Failed:    1,
		Failures:  []string{"missing business name"},
	}
}

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("persists run with generated ID and timestamp", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run := mapscan.NewRun("result.html", testReport())
		require.NoError(t, svc.CreateRun(ctx, run))

		assert.NotEmpty(t, run.ID, "ID should be generated")
		assert.False(t, run.CreatedAt.IsZero(), "CreatedAt should be set")
		for _, rec := range run.Records {
			assert.NotEmpty(t, rec.ID)
			assert.Equal(t, run.ID, rec.RunID)
			assert.NotEmpty(t, rec.Fingerprint)
		}
	})

	t.Run("returns error for missing source", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)

		err := svc.CreateRun(context.Background(), &mapscan.Run{})
		require.Error(t, err)
		assert.Equal(t, mapscan.EINVALID, mapscan.ErrorCode(err))
	})

	t.Run("same listing gets the same fingerprint across runs", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		first := mapscan.NewRun("a.html", testReport())
		second := mapscan.NewRun("b.html", testReport())
		require.NoError(t, svc.CreateRun(ctx, first))
		require.NoError(t, svc.CreateRun(ctx, second))

		assert.Equal(t, first.Records[0].Fingerprint, second.Records[0].Fingerprint)
		assert.NotEqual(t, first.Records[0].Fingerprint, first.Records[1].Fingerprint)
	})
}

func TestRunService_FindRunByID(t *testing.T) {
	t.Parallel()

	t.Run("round-trips run and records in position order", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run := mapscan.NewRun("result.html", testReport())
		require.NoError(t, svc.CreateRun(ctx, run))

		got, err := svc.FindRunByID(ctx, run.ID)
		require.NoError(t, err)

		assert.Equal(t, "result.html", got.Source)
		assert.Equal(t, 3, got.Attempted)
		assert.Equal(t, 2, got.Succeeded)
		assert.Equal(t, 1, got.Failed)
		assert.Equal(t, []string{"missing business name"}, got.Failures)

		require.Len(t, got.Records, 2)
		first := got.Records[0].Business
		assert.Equal(t, "Boulangerie Martin", first.Name)
		require.NotNil(t, first.Rating)
		assert.InDelta(t, 4.5, *first.Rating, 0.001)
		assert.Equal(t, 128, first.ReviewCount)
		assert.Equal(t, "Paris", first.City)

		second := got.Records[1].Business
		assert.Equal(t, "Salon Durand", second.Name)
		assert.Nil(t, second.Rating)
		assert.Equal(t, mapscan.Unspecified, second.City)
	})

	t.Run("returns ENOTFOUND for unknown run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)

		_, err := svc.FindRunByID(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, mapscan.ENOTFOUND, mapscan.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	t.Run("filters by source", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		require.NoError(t, svc.CreateRun(ctx, mapscan.NewRun("a.html", testReport())))
		require.NoError(t, svc.CreateRun(ctx, mapscan.NewRun("b.html", testReport())))

		source := "a.html"
		runs, err := svc.FindRuns(ctx, mapscan.RunFilter{Source: &source})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "a.html", runs[0].Source)
		assert.Empty(t, runs[0].Records, "list view should not load records")
	})

	t.Run("respects limit", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		for range 3 {
			require.NoError(t, svc.CreateRun(ctx, mapscan.NewRun("a.html", testReport())))
		}

		runs, err := svc.FindRuns(ctx, mapscan.RunFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})

	t.Run("respects offset", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		for range 3 {
			require.NoError(t, svc.CreateRun(ctx, mapscan.NewRun("a.html", testReport())))
		}

		runs, err := svc.FindRuns(ctx, mapscan.RunFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})

	t.Run("restores creation timestamps", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run := mapscan.NewRun("a.html", testReport())
		require.NoError(t, svc.CreateRun(ctx, run))

		runs, err := svc.FindRuns(ctx, mapscan.RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.WithinDuration(t, run.CreatedAt, runs[0].CreatedAt, time.Second)

		byID, err := svc.FindRunByID(ctx, run.ID)
		require.NoError(t, err)
		assert.True(t, byID.CreatedAt.Equal(runs[0].CreatedAt))
	})
}

func TestRunService_MarkDelivered(t *testing.T) {
	t.Parallel()

	t.Run("flags the record", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run := mapscan.NewRun("result.html", testReport())
		require.NoError(t, svc.CreateRun(ctx, run))
		require.NoError(t, svc.MarkDelivered(ctx, run.Records[0].ID))

		got, err := svc.FindRunByID(ctx, run.ID)
		require.NoError(t, err)
		assert.True(t, got.Records[0].Delivered)
		assert.False(t, got.Records[1].Delivered)
	})

	t.Run("returns ENOTFOUND for unknown record", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)

		err := svc.MarkDelivered(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, mapscan.ENOTFOUND, mapscan.ErrorCode(err))
	})
}

func TestRunService_DeleteRun(t *testing.T) {
	t.Parallel()

	t.Run("removes run and cascades to records", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run := mapscan.NewRun("result.html", testReport())
		require.NoError(t, svc.CreateRun(ctx, run))
		require.NoError(t, svc.DeleteRun(ctx, run.ID))

		_, err := svc.FindRunByID(ctx, run.ID)
		assert.Equal(t, mapscan.ENOTFOUND, mapscan.ErrorCode(err))

		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("returns ENOTFOUND for unknown run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)

		err := svc.DeleteRun(context.Background(), "missing")
		assert.Equal(t, mapscan.ENOTFOUND, mapscan.ErrorCode(err))
	})
}
