package accounting

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalEntryPostedEvent is raised when a draft entry transitions to POSTED
type JournalEntryPostedEvent struct {
	shared.BaseDomainEvent
	EntryID         uuid.UUID       `json:"entry_id"`
	ReferenceNumber string          `json:"reference_number"`
	PeriodID        uuid.UUID       `json:"period_id"`
	Date            time.Time       `json:"date"`
	Currency        string          `json:"currency"`
	TotalDebit      decimal.Decimal `json:"total_debit"`
	TotalCredit     decimal.Decimal `json:"total_credit"`
	LineCount       int             `json:"line_count"`
}

// EventType returns the event type name
func (e *JournalEntryPostedEvent) EventType() string {
	return "JournalEntryPosted"
}

// NewJournalEntryPostedEvent creates a new JournalEntryPostedEvent
func NewJournalEntryPostedEvent(entry *JournalEntry) *JournalEntryPostedEvent {
	return &JournalEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("JournalEntryPosted", "JournalEntry", entry.ID),
		EntryID:         entry.ID,
		ReferenceNumber: entry.ReferenceNumber,
		PeriodID:        entry.PeriodID,
		Date:            entry.Date,
		Currency:        entry.Currency.String(),
		TotalDebit:      entry.TotalDebit().Amount(),
		TotalCredit:     entry.TotalCredit().Amount(),
		LineCount:       entry.LineCount(),
	}
}
