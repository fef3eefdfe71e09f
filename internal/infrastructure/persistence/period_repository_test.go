package persistence

import (
	"context"
	"testing"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAccountingPeriodRepository_SaveAndFindByID(t *testing.T) {
	repo := NewGormAccountingPeriodRepository(setupTestDB(t))
	ctx := context.Background()

	period := newTestPeriod(t, "2025-01", utcDate(2025, 1, 1), utcDate(2025, 1, 31))
	require.NoError(t, repo.Save(ctx, period))

	found, err := repo.FindByID(ctx, period.ID)
	require.NoError(t, err)
	assert.Equal(t, period.ID, found.ID)
	assert.Equal(t, "2025-01", found.Name)
	assert.True(t, found.IsOpen())
	assert.Equal(t, utcDate(2025, 1, 1), found.Range.Start().UTC())
	assert.Equal(t, utcDate(2025, 1, 31), found.Range.End().UTC())
}

func TestGormAccountingPeriodRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormAccountingPeriodRepository(setupTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormAccountingPeriodRepository_FindByDate(t *testing.T) {
	repo := NewGormAccountingPeriodRepository(setupTestDB(t))
	ctx := context.Background()

	january := newTestPeriod(t, "2025-01", utcDate(2025, 1, 1), utcDate(2025, 1, 31))
	february := newTestPeriod(t, "2025-02", utcDate(2025, 2, 1), utcDate(2025, 2, 28))
	require.NoError(t, repo.Save(ctx, january))
	require.NoError(t, repo.Save(ctx, february))

	found, err := repo.FindByDate(ctx, utcDate(2025, 1, 15))
	require.NoError(t, err)
	assert.Equal(t, january.ID, found.ID)

	// Boundary days belong to the period
	found, err = repo.FindByDate(ctx, utcDate(2025, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, february.ID, found.ID)

	found, err = repo.FindByDate(ctx, utcDate(2025, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, january.ID, found.ID)

	_, err = repo.FindByDate(ctx, utcDate(2025, 3, 1))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormAccountingPeriodRepository_FindOpenPeriodForDate(t *testing.T) {
	repo := NewGormAccountingPeriodRepository(setupTestDB(t))
	ctx := context.Background()

	january := newTestPeriod(t, "2025-01", utcDate(2025, 1, 1), utcDate(2025, 1, 31))
	require.NoError(t, repo.Save(ctx, january))

	found, err := repo.FindOpenPeriodForDate(ctx, utcDate(2025, 1, 15))
	require.NoError(t, err)
	assert.Equal(t, january.ID, found.ID)

	// A covering period that is no longer OPEN counts as not found
	require.NoError(t, january.Close())
	require.NoError(t, repo.Save(ctx, january))

	_, err = repo.FindOpenPeriodForDate(ctx, utcDate(2025, 1, 15))
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// FindByDate still resolves the closed period
	found, err = repo.FindByDate(ctx, utcDate(2025, 1, 15))
	require.NoError(t, err)
	assert.Equal(t, january.ID, found.ID)
}

func TestGormAccountingPeriodRepository_FindOverlapping(t *testing.T) {
	repo := NewGormAccountingPeriodRepository(setupTestDB(t))
	ctx := context.Background()

	january := newTestPeriod(t, "2025-01", utcDate(2025, 1, 1), utcDate(2025, 1, 31))
	require.NoError(t, repo.Save(ctx, january))

	straddling, err := valueobject.NewDateRange(utcDate(2025, 1, 15), utcDate(2025, 2, 15))
	require.NoError(t, err)
	overlapping, err := repo.FindOverlapping(ctx, straddling, nil)
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, january.ID, overlapping[0].ID)

	adjacent, err := valueobject.NewDateRange(utcDate(2025, 2, 1), utcDate(2025, 2, 28))
	require.NoError(t, err)
	overlapping, err = repo.FindOverlapping(ctx, adjacent, nil)
	require.NoError(t, err)
	assert.Empty(t, overlapping)

	// A shared boundary day still overlaps
	boundary, err := valueobject.NewDateRange(utcDate(2025, 1, 31), utcDate(2025, 2, 28))
	require.NoError(t, err)
	overlapping, err = repo.FindOverlapping(ctx, boundary, nil)
	require.NoError(t, err)
	assert.Len(t, overlapping, 1)
}

func TestGormAccountingPeriodRepository_FindOverlapping_Exclude(t *testing.T) {
	repo := NewGormAccountingPeriodRepository(setupTestDB(t))
	ctx := context.Background()

	january := newTestPeriod(t, "2025-01", utcDate(2025, 1, 1), utcDate(2025, 1, 31))
	require.NoError(t, repo.Save(ctx, january))

	// The period does not conflict with itself during a range change
	sameRange, err := valueobject.NewDateRange(utcDate(2025, 1, 1), utcDate(2025, 1, 31))
	require.NoError(t, err)
	overlapping, err := repo.FindOverlapping(ctx, sameRange, &january.ID)
	require.NoError(t, err)
	assert.Empty(t, overlapping)
}

func TestGormAccountingPeriodRepository_SavePersistsLockState(t *testing.T) {
	repo := NewGormAccountingPeriodRepository(setupTestDB(t))
	ctx := context.Background()

	period := newTestPeriod(t, "2025-01", utcDate(2025, 1, 1), utcDate(2025, 1, 31))
	userID := uuid.New()
	require.NoError(t, period.Lock(userID))
	require.NoError(t, repo.Save(ctx, period))

	found, err := repo.FindByID(ctx, period.ID)
	require.NoError(t, err)
	assert.True(t, found.IsLocked())
	require.NotNil(t, found.LockedBy)
	assert.Equal(t, userID, *found.LockedBy)
	assert.NotNil(t, found.LockedAt)
}

func TestGormAccountingPeriodRepository_Delete(t *testing.T) {
	repo := NewGormAccountingPeriodRepository(setupTestDB(t))
	ctx := context.Background()

	period := newTestPeriod(t, "2025-01", utcDate(2025, 1, 1), utcDate(2025, 1, 31))
	require.NoError(t, repo.Save(ctx, period))

	require.NoError(t, repo.Delete(ctx, period.ID))
	_, err := repo.FindByID(ctx, period.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, period.ID), shared.ErrNotFound)
}
