package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountingPeriodRepository implements AccountingPeriodRepository using GORM
type GormAccountingPeriodRepository struct {
	db *gorm.DB
}

// NewGormAccountingPeriodRepository creates a new GormAccountingPeriodRepository
func NewGormAccountingPeriodRepository(db *gorm.DB) *GormAccountingPeriodRepository {
	return &GormAccountingPeriodRepository{db: db}
}

// FindByID finds a period by its ID
func (r *GormAccountingPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.AccountingPeriod, error) {
	var model models.AccountingPeriodModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByDate finds the period whose range contains the given date
func (r *GormAccountingPeriodRepository) FindByDate(ctx context.Context, date time.Time) (*accounting.AccountingPeriod, error) {
	var model models.AccountingPeriodModel
	if err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", date, date).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindOpenPeriodForDate finds the OPEN period covering the given date.
// A closed or locked covering period counts as not found.
func (r *GormAccountingPeriodRepository) FindOpenPeriodForDate(ctx context.Context, date time.Time) (*accounting.AccountingPeriod, error) {
	var model models.AccountingPeriodModel
	if err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ? AND status = ?", date, date, accounting.PeriodStatusOpen).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindOverlapping finds periods whose ranges intersect the candidate range
// under inclusive bounds, excluding the given period ID when set
func (r *GormAccountingPeriodRepository) FindOverlapping(ctx context.Context, dateRange valueobject.DateRange, excludeID *uuid.UUID) ([]accounting.AccountingPeriod, error) {
	var periodModels []models.AccountingPeriodModel
	query := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", dateRange.End(), dateRange.Start())
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Order("start_date ASC").Find(&periodModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(periodModels)
}

// FindAll finds all periods with filtering
func (r *GormAccountingPeriodRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.AccountingPeriod, error) {
	var periodModels []models.AccountingPeriodModel
	query := r.db.WithContext(ctx).Model(&models.AccountingPeriodModel{})
	query = applyFilter(query, filter, "name")

	if err := query.Find(&periodModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(periodModels)
}

// Save creates or updates a period
func (r *GormAccountingPeriodRepository) Save(ctx context.Context, period *accounting.AccountingPeriod) error {
	model := models.AccountingPeriodModelFromDomain(period)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a period
func (r *GormAccountingPeriodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AccountingPeriodModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormAccountingPeriodRepository) toDomainSlice(periodModels []models.AccountingPeriodModel) ([]accounting.AccountingPeriod, error) {
	periods := make([]accounting.AccountingPeriod, len(periodModels))
	for i, model := range periodModels {
		period, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		periods[i] = *period
	}
	return periods, nil
}

// Ensure GormAccountingPeriodRepository implements AccountingPeriodRepository
var _ accounting.AccountingPeriodRepository = (*GormAccountingPeriodRepository)(nil)
