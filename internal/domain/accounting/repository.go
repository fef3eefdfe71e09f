package accounting

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ChartOfAccountRepository defines the interface for chart-of-accounts persistence
type ChartOfAccountRepository interface {
	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ChartOfAccount, error)

	// FindByCode finds an account by its chart code
	FindByCode(ctx context.Context, code string) (*ChartOfAccount, error)

	// FindAll finds all accounts with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]ChartOfAccount, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *ChartOfAccount) error

	// Delete removes an account
	Delete(ctx context.Context, id uuid.UUID) error
}

// JournalEntryRepository defines the interface for journal entry persistence.
// Save persists the entry and all of its lines in one transaction so a
// concurrent reader never observes a partially-built entry; it must reject a
// second entry with an already-persisted reference number.
type JournalEntryRepository interface {
	// FindByID finds a journal entry by ID, lines included in order
	FindByID(ctx context.Context, id uuid.UUID) (*JournalEntry, error)

	// FindByReference finds a journal entry by reference number
	FindByReference(ctx context.Context, referenceNumber string) (*JournalEntry, error)

	// ExistsByReference checks if an entry with the reference number exists
	ExistsByReference(ctx context.Context, referenceNumber string) (bool, error)

	// FindAll finds journal entries with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]JournalEntry, error)

	// Save atomically persists the entry and its lines
	Save(ctx context.Context, entry *JournalEntry) error

	// Delete removes a journal entry and its lines
	Delete(ctx context.Context, id uuid.UUID) error

	// NextJournalNumber generates a unique, monotonic journal number
	NextJournalNumber(ctx context.Context) (string, error)
}

// AccountingPeriodRepository defines the interface for period persistence
type AccountingPeriodRepository interface {
	// FindByID finds a period by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AccountingPeriod, error)

	// FindByDate finds the period whose range contains the given date
	FindByDate(ctx context.Context, date time.Time) (*AccountingPeriod, error)

	// FindOpenPeriodForDate finds the OPEN period whose range contains the
	// given date. A covering period in CLOSED or LOCKED status counts as
	// not found.
	FindOpenPeriodForDate(ctx context.Context, date time.Time) (*AccountingPeriod, error)

	// FindOverlapping finds periods whose ranges intersect the candidate
	// range under inclusive bounds, excluding the given period ID when set
	FindOverlapping(ctx context.Context, dateRange valueobject.DateRange, excludeID *uuid.UUID) ([]AccountingPeriod, error)

	// FindAll finds all periods with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]AccountingPeriod, error)

	// Save creates or updates a period
	Save(ctx context.Context, period *AccountingPeriod) error

	// Delete removes a period
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostingRuleRepository defines the interface for posting rule persistence
type PostingRuleRepository interface {
	// FindByID finds a rule by ID, lines included in order
	FindByID(ctx context.Context, id uuid.UUID) (*PostingRule, error)

	// FindActiveByEventType finds the single active rule for an event type.
	// Returns shared.ErrNotFound when no active rule exists.
	FindActiveByEventType(ctx context.Context, eventType string) (*PostingRule, error)

	// FindAll finds all rules with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]PostingRule, error)

	// Save persists the rule and its lines
	Save(ctx context.Context, rule *PostingRule) error

	// Delete removes a rule and its lines
	Delete(ctx context.Context, id uuid.UUID) error
}
