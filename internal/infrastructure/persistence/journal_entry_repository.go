package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJournalEntryRepository implements JournalEntryRepository using GORM.
// Entry and lines are written in one transaction so a reader never observes
// a partially persisted entry.
type GormJournalEntryRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// SetOutboxEventSaver enables transactional event publishing: the entry's
// pending domain events are written to the outbox in the same transaction
// as the entry itself
func (r *GormJournalEntryRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a journal entry by its ID, lines included in order
func (r *GormJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.JournalEntry, error) {
	var model models.JournalEntryModel
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

// FindByReference finds a journal entry by its reference number
func (r *GormJournalEntryRepository) FindByReference(ctx context.Context, referenceNumber string) (*accounting.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Where("reference_number = ?", referenceNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// ExistsByReference checks if an entry with the reference number exists
func (r *GormJournalEntryRepository) ExistsByReference(ctx context.Context, referenceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.JournalEntryModel{}).
		Where("reference_number = ?", referenceNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds journal entries with filtering
func (r *GormJournalEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.JournalEntry, error) {
	var entryModels []models.JournalEntryModel
	query := r.db.WithContext(ctx).Model(&models.JournalEntryModel{}).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		})
	query = r.applyEntryFilter(query, filter)

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]accounting.JournalEntry, len(entryModels))
	for i, model := range entryModels {
		entry, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		entries[i] = *entry
	}
	return entries, nil
}

// Save atomically persists the entry and its lines. Lines are replaced
// wholesale; the unique index on reference_number rejects duplicates.
func (r *GormJournalEntryRepository) Save(ctx context.Context, entry *accounting.JournalEntry) error {
	model := models.JournalEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.JournalLineModel{}, "entry_id = ?", entry.ID).Error; err != nil {
			return err
		}
		lines := model.Lines
		model.Lines = nil
		if err := tx.Save(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: reference %s", shared.ErrAlreadyExists, entry.ReferenceNumber)
			}
			return err
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		if r.outboxSaver != nil {
			if events := entry.GetDomainEvents(); len(events) > 0 {
				if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
					return fmt.Errorf("failed to save events to outbox: %w", err)
				}
			}
		}
		return nil
	})
}

// Delete removes a journal entry and its lines
func (r *GormJournalEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.JournalLineModel{}, "entry_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.JournalEntryModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// NextJournalNumber generates a unique journal number in the form
// JE-YYYYMMDD-NNNNN, monotonic within a day
func (r *GormJournalEntryRepository) NextJournalNumber(ctx context.Context) (string, error) {
	date := time.Now().Format("20060102")
	prefix := fmt.Sprintf("JE-%s-", date)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.JournalEntryModel{}).
		Select("reference_number").
		Where("reference_number LIKE ?", prefix+"%").
		Order("reference_number DESC").
		Limit(1).
		Pluck("reference_number", &maxNumber).Error; err != nil {
		return "", err
	}

	var nextNum int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if len(parts) == 3 {
			fmt.Sscanf(parts[2], "%d", &nextNum)
		}
	}
	nextNum++

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyEntryFilter applies filter options to the query
func (r *GormJournalEntryRepository) applyEntryFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("reference_number ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if periodID, ok := filter.Filters["period_id"]; ok {
		query = query.Where("period_id = ?", periodID)
	}
	if from, ok := filter.Filters["from_date"]; ok {
		query = query.Where("date >= ?", from)
	}
	if to, ok := filter.Filters["to_date"]; ok {
		query = query.Where("date <= ?", to)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("date DESC, reference_number DESC")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// Ensure GormJournalEntryRepository implements JournalEntryRepository
var _ accounting.JournalEntryRepository = (*GormJournalEntryRepository)(nil)
