package accounting

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PeriodStatus represents the lifecycle state of an accounting period
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "OPEN"
	PeriodStatusClosed PeriodStatus = "CLOSED"
	PeriodStatusLocked PeriodStatus = "LOCKED"
)

// IsValid checks if the status is a valid PeriodStatus
func (s PeriodStatus) IsValid() bool {
	switch s {
	case PeriodStatusOpen, PeriodStatusClosed, PeriodStatusLocked:
		return true
	}
	return false
}

// String returns the string representation of PeriodStatus
func (s PeriodStatus) String() string {
	return string(s)
}

// Period errors
var (
	ErrCannotCloseLocked = shared.NewDomainError("CANNOT_CLOSE_LOCKED", "Cannot close a locked period")
	ErrPeriodLocked      = shared.NewDomainError("PERIOD_LOCKED", "Cannot post to a locked period")
	ErrPeriodOverlap     = shared.NewDomainError("PERIOD_OVERLAP", "Period date range overlaps an existing period")
	ErrPeriodNotFound    = shared.NewDomainError("PERIOD_NOT_FOUND", "No accounting period covers the posting date")
)

// AccountingPeriod is an aggregate root gating which dates may receive
// postings. Lifecycle: created OPEN, Close moves to CLOSED, Lock to LOCKED.
// Only LOCKED is a hard posting block; a CLOSED period stays postable at the
// aggregate level and any stricter policy belongs to calling code.
type AccountingPeriod struct {
	shared.BaseAggregateRoot
	Name     string                `json:"name"`
	Range    valueobject.DateRange `json:"range"`
	Status   PeriodStatus          `json:"status"`
	LockedBy *uuid.UUID            `json:"locked_by,omitempty"`
	LockedAt *time.Time            `json:"locked_at,omitempty"`
}

// NewAccountingPeriod creates a new open period covering the given range
func NewAccountingPeriod(name string, dateRange valueobject.DateRange) (*AccountingPeriod, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PERIOD_NAME", "Period name cannot be empty")
	}

	return &AccountingPeriod{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Range:             dateRange,
		Status:            PeriodStatusOpen,
	}, nil
}

// ReconstructAccountingPeriod rebuilds a period from storage in any valid state
func ReconstructAccountingPeriod(
	base shared.BaseAggregateRoot,
	name string,
	dateRange valueobject.DateRange,
	status PeriodStatus,
	lockedBy *uuid.UUID,
	lockedAt *time.Time,
) (*AccountingPeriod, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_PERIOD_STATUS", fmt.Sprintf("Period status %q is not valid", status))
	}
	return &AccountingPeriod{
		BaseAggregateRoot: base,
		Name:              name,
		Range:             dateRange,
		Status:            status,
		LockedBy:          lockedBy,
		LockedAt:          lockedAt,
	}, nil
}

// Close transitions the period to CLOSED. Closing an already closed period is
// a no-op; closing a locked period fails.
func (p *AccountingPeriod) Close() error {
	if p.Status == PeriodStatusLocked {
		return fmt.Errorf("%w: %s", ErrCannotCloseLocked, p.Name)
	}
	if p.Status == PeriodStatusClosed {
		return nil
	}

	p.Status = PeriodStatusClosed
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewPeriodClosedEvent(p))

	return nil
}

// Lock transitions any non-locked state to LOCKED, stamping the locking user
// and time. Locking an already locked period is a no-op.
func (p *AccountingPeriod) Lock(userID uuid.UUID) error {
	if p.Status == PeriodStatusLocked {
		return nil
	}

	now := time.Now()
	p.Status = PeriodStatusLocked
	p.LockedBy = &userID
	p.LockedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	p.AddDomainEvent(NewPeriodLockedEvent(p, userID))

	return nil
}

// Unlock is an administrative override: it returns the period to OPEN from
// any state and clears the lock stamp. It never fails.
func (p *AccountingPeriod) Unlock() {
	p.Status = PeriodStatusOpen
	p.LockedBy = nil
	p.LockedAt = nil
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewPeriodUnlockedEvent(p))
}

// ChangeRange replaces the period's date range. Locked periods cannot be
// reshaped; the caller must run overlap validation before invoking this.
func (p *AccountingPeriod) ChangeRange(dateRange valueobject.DateRange) error {
	if p.Status == PeriodStatusLocked {
		return fmt.Errorf("%w: %s", ErrPeriodLocked, p.Name)
	}
	p.Range = dateRange
	p.Touch()
	p.IncrementVersion()
	return nil
}

// IsOpen returns true if the period is open
func (p *AccountingPeriod) IsOpen() bool {
	return p.Status == PeriodStatusOpen
}

// IsClosed returns true if the period is closed
func (p *AccountingPeriod) IsClosed() bool {
	return p.Status == PeriodStatusClosed
}

// IsLocked returns true if the period is locked. A locked period is the only
// hard block against posting.
func (p *AccountingPeriod) IsLocked() bool {
	return p.Status == PeriodStatusLocked
}

// Covers returns true if the given date falls within the period's range
func (p *AccountingPeriod) Covers(date time.Time) bool {
	return p.Range.Contains(date)
}
