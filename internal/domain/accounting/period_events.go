package accounting

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// PeriodClosedEvent is raised when a period is closed
type PeriodClosedEvent struct {
	shared.BaseDomainEvent
	PeriodID   uuid.UUID `json:"period_id"`
	PeriodName string    `json:"period_name"`
}

// EventType returns the event type name
func (e *PeriodClosedEvent) EventType() string {
	return "AccountingPeriodClosed"
}

// NewPeriodClosedEvent creates a new PeriodClosedEvent
func NewPeriodClosedEvent(p *AccountingPeriod) *PeriodClosedEvent {
	return &PeriodClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AccountingPeriodClosed", "AccountingPeriod", p.ID),
		PeriodID:        p.ID,
		PeriodName:      p.Name,
	}
}

// PeriodLockedEvent is raised when a period is locked against posting
type PeriodLockedEvent struct {
	shared.BaseDomainEvent
	PeriodID   uuid.UUID `json:"period_id"`
	PeriodName string    `json:"period_name"`
	LockedBy   uuid.UUID `json:"locked_by"`
	LockedAt   time.Time `json:"locked_at"`
}

// EventType returns the event type name
func (e *PeriodLockedEvent) EventType() string {
	return "AccountingPeriodLocked"
}

// NewPeriodLockedEvent creates a new PeriodLockedEvent
func NewPeriodLockedEvent(p *AccountingPeriod, lockedBy uuid.UUID) *PeriodLockedEvent {
	lockedAt := time.Now()
	if p.LockedAt != nil {
		lockedAt = *p.LockedAt
	}
	return &PeriodLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AccountingPeriodLocked", "AccountingPeriod", p.ID),
		PeriodID:        p.ID,
		PeriodName:      p.Name,
		LockedBy:        lockedBy,
		LockedAt:        lockedAt,
	}
}

// PeriodUnlockedEvent is raised when a period is reopened by an administrator
type PeriodUnlockedEvent struct {
	shared.BaseDomainEvent
	PeriodID   uuid.UUID `json:"period_id"`
	PeriodName string    `json:"period_name"`
}

// EventType returns the event type name
func (e *PeriodUnlockedEvent) EventType() string {
	return "AccountingPeriodUnlocked"
}

// NewPeriodUnlockedEvent creates a new PeriodUnlockedEvent
func NewPeriodUnlockedEvent(p *AccountingPeriod) *PeriodUnlockedEvent {
	return &PeriodUnlockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AccountingPeriodUnlocked", "AccountingPeriod", p.ID),
		PeriodID:        p.ID,
		PeriodName:      p.Name,
	}
}
