package persistence

import (
	"context"
	"errors"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPostingRuleRepository implements PostingRuleRepository using GORM
type GormPostingRuleRepository struct {
	db *gorm.DB
}

// NewGormPostingRuleRepository creates a new GormPostingRuleRepository
func NewGormPostingRuleRepository(db *gorm.DB) *GormPostingRuleRepository {
	return &GormPostingRuleRepository{db: db}
}

// FindByID finds a rule by its ID, lines included in order
func (r *GormPostingRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.PostingRule, error) {
	var model models.PostingRuleModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindActiveByEventType finds the single active rule for an event type.
// Returns shared.ErrNotFound when no active rule exists.
func (r *GormPostingRuleRepository) FindActiveByEventType(ctx context.Context, eventType string) (*accounting.PostingRule, error) {
	var model models.PostingRuleModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Where("event_type = ? AND is_active", eventType).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll finds all rules with filtering
func (r *GormPostingRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.PostingRule, error) {
	var ruleModels []models.PostingRuleModel
	query := r.db.WithContext(ctx).Model(&models.PostingRuleModel{}).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		})
	query = applyFilter(query, filter, "event_type", "description")

	if err := query.Find(&ruleModels).Error; err != nil {
		return nil, err
	}
	rules := make([]accounting.PostingRule, len(ruleModels))
	for i, model := range ruleModels {
		rule, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		rules[i] = *rule
	}
	return rules, nil
}

// Save persists the rule and its lines in one transaction
func (r *GormPostingRuleRepository) Save(ctx context.Context, rule *accounting.PostingRule) error {
	model := models.PostingRuleModelFromDomain(rule)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PostingRuleLineModel{}, "rule_id = ?", rule.ID).Error; err != nil {
			return err
		}
		lines := model.Lines
		model.Lines = nil
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a rule and its lines
func (r *GormPostingRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PostingRuleLineModel{}, "rule_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.PostingRuleModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormPostingRuleRepository implements PostingRuleRepository
var _ accounting.PostingRuleRepository = (*GormPostingRuleRepository)(nil)
