package accounting

import (
	"context"
	"fmt"

	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PeriodValidator is a domain service enforcing the non-overlap invariant
// across accounting periods. It must be consulted before creating a period or
// changing an existing period's date range.
type PeriodValidator struct {
	periodRepo AccountingPeriodRepository
}

// NewPeriodValidator creates a new PeriodValidator
func NewPeriodValidator(periodRepo AccountingPeriodRepository) *PeriodValidator {
	return &PeriodValidator{periodRepo: periodRepo}
}

// EnsureNoOverlap fails with ErrPeriodOverlap if any other existing period's
// range intersects the candidate range under inclusive bounds. excludeID
// skips the period being updated so it does not conflict with itself.
func (v *PeriodValidator) EnsureNoOverlap(ctx context.Context, candidate valueobject.DateRange, excludeID *uuid.UUID) error {
	overlapping, err := v.periodRepo.FindOverlapping(ctx, candidate, excludeID)
	if err != nil {
		return fmt.Errorf("failed to query overlapping periods: %w", err)
	}
	if len(overlapping) > 0 {
		return fmt.Errorf("%w: %s conflicts with period %q %s",
			ErrPeriodOverlap, candidate, overlapping[0].Name, overlapping[0].Range)
	}
	return nil
}
