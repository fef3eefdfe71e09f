package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormChartOfAccountRepository implements ChartOfAccountRepository using GORM
type GormChartOfAccountRepository struct {
	db *gorm.DB
}

// NewGormChartOfAccountRepository creates a new GormChartOfAccountRepository
func NewGormChartOfAccountRepository(db *gorm.DB) *GormChartOfAccountRepository {
	return &GormChartOfAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormChartOfAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.ChartOfAccount, error) {
	var model models.ChartOfAccountModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an account by its chart code
func (r *GormChartOfAccountRepository) FindByCode(ctx context.Context, code string) (*accounting.ChartOfAccount, error) {
	var model models.ChartOfAccountModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all accounts with filtering
func (r *GormChartOfAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.ChartOfAccount, error) {
	var accountModels []models.ChartOfAccountModel
	query := r.db.WithContext(ctx).Model(&models.ChartOfAccountModel{})
	query = applyFilter(query, filter, "code", "name")

	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]accounting.ChartOfAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// Save creates or updates an account
func (r *GormChartOfAccountRepository) Save(ctx context.Context, account *accounting.ChartOfAccount) error {
	model := models.ChartOfAccountModelFromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an account
func (r *GormChartOfAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ChartOfAccountModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies search, ordering and pagination shared by the
// accounting repositories. searchColumns name the columns matched by Search.
func applyFilter(query *gorm.DB, filter shared.Filter, searchColumns ...string) *gorm.DB {
	if filter.Search != "" && len(searchColumns) > 0 {
		pattern := "%" + filter.Search + "%"
		conditions := make([]string, len(searchColumns))
		args := make([]interface{}, len(searchColumns))
		for i, col := range searchColumns {
			conditions[i] = col + " ILIKE ?"
			args[i] = pattern
		}
		query = query.Where(strings.Join(conditions, " OR "), args...)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// Ensure GormChartOfAccountRepository implements ChartOfAccountRepository
var _ accounting.ChartOfAccountRepository = (*GormChartOfAccountRepository)(nil)
