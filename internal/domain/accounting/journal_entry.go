package accounting

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// DebitCredit represents the side of a journal line. A line is always
// single-sided: an amount is posted as a debit xor a credit, never both.
type DebitCredit string

const (
	Debit  DebitCredit = "DEBIT"
	Credit DebitCredit = "CREDIT"
)

// IsValid checks if the side is a valid DebitCredit
func (d DebitCredit) IsValid() bool {
	return d == Debit || d == Credit
}

// String returns the string representation of DebitCredit
func (d DebitCredit) String() string {
	return string(d)
}

// EntryStatus represents the lifecycle state of a journal entry
type EntryStatus string

const (
	EntryStatusDraft  EntryStatus = "DRAFT"
	EntryStatusPosted EntryStatus = "POSTED"
)

// IsValid checks if the status is a valid EntryStatus
func (s EntryStatus) IsValid() bool {
	return s == EntryStatusDraft || s == EntryStatusPosted
}

// String returns the string representation of EntryStatus
func (s EntryStatus) String() string {
	return string(s)
}

// Journal entry errors
var (
	ErrEntryAlreadyPosted = shared.NewDomainError("ENTRY_ALREADY_POSTED", "Cannot add lines to a posted entry")
	ErrAlreadyPosted      = shared.NewDomainError("ALREADY_POSTED", "Entry has already been posted")
	ErrUnbalancedEntry    = shared.NewDomainError("UNBALANCED_ENTRY", "Debit and credit totals do not balance")
	ErrEmptyEntry         = shared.NewDomainError("EMPTY_ENTRY", "Entry has no lines to post")
)

// JournalLine is a single-sided amount posted against an account.
// It is a value object within the JournalEntry aggregate.
type JournalLine struct {
	AccountID   uuid.UUID         `json:"account_id"`
	Side        DebitCredit       `json:"side"`
	Amount      valueobject.Money `json:"amount"`
	Description string            `json:"description,omitempty"`
}

// NewJournalLine creates a new journal line
func NewJournalLine(accountID uuid.UUID, side DebitCredit, amount valueobject.Money, description string) (JournalLine, error) {
	if accountID == uuid.Nil {
		return JournalLine{}, shared.NewDomainError("INVALID_ACCOUNT_ID", "Journal line account ID cannot be empty")
	}
	if !side.IsValid() {
		return JournalLine{}, shared.NewDomainError("INVALID_SIDE", fmt.Sprintf("Journal line side %q is not valid", side))
	}
	return JournalLine{
		AccountID:   accountID,
		Side:        side,
		Amount:      amount,
		Description: description,
	}, nil
}

// IsDebit returns true if the line is a debit
func (l JournalLine) IsDebit() bool {
	return l.Side == Debit
}

// IsCredit returns true if the line is a credit
func (l JournalLine) IsCredit() bool {
	return l.Side == Credit
}

// JournalEntry is a balanced ledger transaction aggregate. Entries start as
// drafts, accumulate lines, and may transition to POSTED only while balanced.
// Posted entries are immutable.
type JournalEntry struct {
	shared.BaseAggregateRoot
	ReferenceNumber string               `json:"reference_number"`
	Date            time.Time            `json:"date"`
	Description     string               `json:"description"`
	PeriodID        uuid.UUID            `json:"period_id"`
	Currency        valueobject.Currency `json:"currency"`
	Status          EntryStatus          `json:"status"`
	Lines           []JournalLine        `json:"lines"`
	PostedAt        *time.Time           `json:"posted_at,omitempty"`
}

// NewJournalEntry creates a new draft entry with no lines
func NewJournalEntry(referenceNumber string, date time.Time, description string, periodID uuid.UUID, currency valueobject.Currency) (*JournalEntry, error) {
	if referenceNumber == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Journal reference number cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Journal date cannot be empty")
	}
	if periodID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PERIOD_ID", "Journal period ID cannot be empty")
	}
	if !currency.IsValid() {
		return nil, fmt.Errorf("%w: %q", valueobject.ErrInvalidCurrency, currency)
	}

	return &JournalEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReferenceNumber:   referenceNumber,
		Date:              date,
		Description:       description,
		PeriodID:          periodID,
		Currency:          currency,
		Status:            EntryStatusDraft,
		Lines:             make([]JournalLine, 0),
	}, nil
}

// ReconstructJournalEntry rebuilds an entry plus its lines from storage,
// preserving line order
func ReconstructJournalEntry(
	base shared.BaseAggregateRoot,
	referenceNumber string,
	date time.Time,
	description string,
	periodID uuid.UUID,
	currency valueobject.Currency,
	status EntryStatus,
	lines []JournalLine,
	postedAt *time.Time,
) (*JournalEntry, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_STATUS", fmt.Sprintf("Entry status %q is not valid", status))
	}
	return &JournalEntry{
		BaseAggregateRoot: base,
		ReferenceNumber:   referenceNumber,
		Date:              date,
		Description:       description,
		PeriodID:          periodID,
		Currency:          currency,
		Status:            status,
		Lines:             lines,
		PostedAt:          postedAt,
	}, nil
}

// AddLine appends a line to the entry. Fails on posted entries and on lines
// whose currency differs from the entry currency.
func (e *JournalEntry) AddLine(line JournalLine) error {
	if e.Status == EntryStatusPosted {
		return fmt.Errorf("%w: %s", ErrEntryAlreadyPosted, e.ReferenceNumber)
	}
	if line.Amount.Currency() != e.Currency {
		return fmt.Errorf("%w: entry %s, line %s", valueobject.ErrCurrencyMismatch, e.Currency, line.Amount.Currency())
	}

	e.Lines = append(e.Lines, line)
	e.Touch()

	return nil
}

// TotalDebit returns the sum of all debit line amounts
func (e *JournalEntry) TotalDebit() valueobject.Money {
	total := valueobject.Zero(e.Currency)
	for _, line := range e.Lines {
		if line.IsDebit() {
			total = total.MustAdd(line.Amount)
		}
	}
	return total
}

// TotalCredit returns the sum of all credit line amounts
func (e *JournalEntry) TotalCredit() valueobject.Money {
	total := valueobject.Zero(e.Currency)
	for _, line := range e.Lines {
		if line.IsCredit() {
			total = total.MustAdd(line.Amount)
		}
	}
	return total
}

// IsBalanced returns true iff the debit total equals the credit total in the
// entry currency, within the Money equality tolerance
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebit().Equals(e.TotalCredit())
}

// Post transitions the entry from DRAFT to POSTED. Posting an unbalanced or
// empty entry fails; posting twice fails with ErrAlreadyPosted (hard failure
// rather than a silent no-op, so duplicate posting attempts surface).
func (e *JournalEntry) Post() error {
	if e.Status == EntryStatusPosted {
		return fmt.Errorf("%w: %s", ErrAlreadyPosted, e.ReferenceNumber)
	}
	if len(e.Lines) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyEntry, e.ReferenceNumber)
	}
	if !e.IsBalanced() {
		return fmt.Errorf("%w: %s (debit %s, credit %s)",
			ErrUnbalancedEntry, e.ReferenceNumber, e.TotalDebit(), e.TotalCredit())
	}

	now := time.Now()
	e.Status = EntryStatusPosted
	e.PostedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()
	e.AddDomainEvent(NewJournalEntryPostedEvent(e))

	return nil
}

// IsDraft returns true if the entry has not been posted yet
func (e *JournalEntry) IsDraft() bool {
	return e.Status == EntryStatusDraft
}

// IsPosted returns true if the entry has been posted
func (e *JournalEntry) IsPosted() bool {
	return e.Status == EntryStatusPosted
}

// LineCount returns the number of lines on the entry
func (e *JournalEntry) LineCount() int {
	return len(e.Lines)
}
