package accounting

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PeriodService manages the accounting period lifecycle. Every range change
// runs through the non-overlap validator before touching storage.
type PeriodService struct {
	periodRepo accounting.AccountingPeriodRepository
	validator  *accounting.PeriodValidator
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewPeriodService creates a new PeriodService
func NewPeriodService(
	periodRepo accounting.AccountingPeriodRepository,
	validator *accounting.PeriodValidator,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *PeriodService {
	return &PeriodService{
		periodRepo: periodRepo,
		validator:  validator,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreatePeriod creates a new open period after overlap validation
func (s *PeriodService) CreatePeriod(ctx context.Context, name string, start, end time.Time) (*accounting.AccountingPeriod, error) {
	dateRange, err := valueobject.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if err := s.validator.EnsureNoOverlap(ctx, dateRange, nil); err != nil {
		return nil, err
	}

	period, err := accounting.NewAccountingPeriod(name, dateRange)
	if err != nil {
		return nil, err
	}
	if err := s.periodRepo.Save(ctx, period); err != nil {
		return nil, fmt.Errorf("failed to save period: %w", err)
	}

	s.logger.Info("accounting period created",
		zap.String("period_id", period.ID.String()),
		zap.String("name", period.Name),
		zap.String("range", period.Range.String()),
	)

	return period, nil
}

// ChangePeriodRange updates an existing period's date range after overlap
// validation, excluding the period itself from the check
func (s *PeriodService) ChangePeriodRange(ctx context.Context, id uuid.UUID, start, end time.Time) (*accounting.AccountingPeriod, error) {
	dateRange, err := valueobject.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if err := s.validator.EnsureNoOverlap(ctx, dateRange, &id); err != nil {
		return nil, err
	}

	period, err := s.periodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := period.ChangeRange(dateRange); err != nil {
		return nil, err
	}
	if err := s.periodRepo.Save(ctx, period); err != nil {
		return nil, fmt.Errorf("failed to save period: %w", err)
	}

	return period, nil
}

// ClosePeriod closes the period. Closing a locked period fails.
func (s *PeriodService) ClosePeriod(ctx context.Context, id uuid.UUID) (*accounting.AccountingPeriod, error) {
	return s.transition(ctx, id, func(p *accounting.AccountingPeriod) error {
		return p.Close()
	})
}

// LockPeriod locks the period against posting, stamping the acting user.
// Locking an already locked period is a no-op.
func (s *PeriodService) LockPeriod(ctx context.Context, id, userID uuid.UUID) (*accounting.AccountingPeriod, error) {
	return s.transition(ctx, id, func(p *accounting.AccountingPeriod) error {
		return p.Lock(userID)
	})
}

// UnlockPeriod reopens the period and clears the lock stamp
func (s *PeriodService) UnlockPeriod(ctx context.Context, id uuid.UUID) (*accounting.AccountingPeriod, error) {
	return s.transition(ctx, id, func(p *accounting.AccountingPeriod) error {
		p.Unlock()
		return nil
	})
}

// GetPeriod finds a period by ID
func (s *PeriodService) GetPeriod(ctx context.Context, id uuid.UUID) (*accounting.AccountingPeriod, error) {
	return s.periodRepo.FindByID(ctx, id)
}

// ListPeriods lists periods with filtering
func (s *PeriodService) ListPeriods(ctx context.Context, filter shared.Filter) ([]accounting.AccountingPeriod, error) {
	return s.periodRepo.FindAll(ctx, filter)
}

// transition loads, mutates, saves, and publishes the period's events
func (s *PeriodService) transition(ctx context.Context, id uuid.UUID, mutate func(*accounting.AccountingPeriod) error) (*accounting.AccountingPeriod, error) {
	period, err := s.periodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(period); err != nil {
		return nil, err
	}
	if err := s.periodRepo.Save(ctx, period); err != nil {
		return nil, fmt.Errorf("failed to save period: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, period.GetDomainEvents()...); err != nil {
			s.logger.Error("failed to publish period events",
				zap.String("period_id", period.ID.String()),
				zap.Error(err),
			)
		}
		period.ClearDomainEvents()
	}

	s.logger.Info("accounting period transitioned",
		zap.String("period_id", period.ID.String()),
		zap.String("status", period.Status.String()),
	)

	return period, nil
}
