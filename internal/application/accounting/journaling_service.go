package accounting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/accounting/acl"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// JournalingService turns translated domain events into posted journal
// entries: it resolves account codes, locates the target period, builds the
// JournalEntry aggregate, verifies balance, and persists the result through
// the repository's atomic Save. No partial journal is ever persisted - any
// failure before Save leaves the ledger untouched. The repository writes the
// entry's domain events to the outbox in the same transaction; the outbox
// dispatcher delivers them to the bus after commit.
type JournalingService struct {
	accountRepo accounting.ChartOfAccountRepository
	journalRepo accounting.JournalEntryRepository
	periodRepo  accounting.AccountingPeriodRepository
	ruleRepo    accounting.PostingRuleRepository
	logger      *zap.Logger
}

// NewJournalingService creates a new JournalingService
func NewJournalingService(
	accountRepo accounting.ChartOfAccountRepository,
	journalRepo accounting.JournalEntryRepository,
	periodRepo accounting.AccountingPeriodRepository,
	ruleRepo accounting.PostingRuleRepository,
	logger *zap.Logger,
) *JournalingService {
	return &JournalingService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		periodRepo:  periodRepo,
		ruleRepo:    ruleRepo,
		logger:      logger,
	}
}

// Process creates and posts a journal entry from a generic posting payload.
// The payload reference doubles as idempotency key: when an entry with the
// same reference already exists, the existing entry is returned and nothing
// is posted again.
func (s *JournalingService) Process(ctx context.Context, payload acl.PostingPayload) (*accounting.JournalEntry, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	reference := payload.Reference
	if reference != "" {
		existing, err := s.findExisting(ctx, reference)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			s.logger.Warn("journal entry already exists for reference, skipping",
				zap.String("reference", reference),
			)
			return existing, nil
		}
	} else {
		generated, err := s.journalRepo.NextJournalNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to generate journal number: %w", err)
		}
		reference = generated
	}

	currency := payload.EffectiveCurrency()
	lines := make([]accounting.JournalLine, 0, len(payload.Lines))
	for _, payloadLine := range payload.Lines {
		account, err := s.resolveAccount(ctx, payloadLine.AccountCode)
		if err != nil {
			return nil, err
		}

		amount, err := valueobject.NewMoney(payloadLine.Amount, currency)
		if err != nil {
			return nil, err
		}
		side, err := payloadLine.Side()
		if err != nil {
			return nil, err
		}
		line, err := accounting.NewJournalLine(account.ID, side, amount, payloadLine.Description)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return s.createAndPost(ctx, reference, payload.Date, payload.Description, currency, lines)
}

// ProcessRuleEvent applies the single active posting rule for the event's
// type. An event type with no active rule is a valid untracked state and
// produces no posting - the method returns (nil, nil). A rule whose lines do
// not balance is a configuration bug that surfaces as ErrUnbalancedEntry
// with nothing persisted.
func (s *JournalingService) ProcessRuleEvent(ctx context.Context, event acl.RuleSourceEvent) (*accounting.JournalEntry, error) {
	rule, err := s.ruleRepo.FindActiveByEventType(ctx, event.EventType())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("no active posting rule for event type, skipping",
				zap.String("event_type", event.EventType()),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up posting rule: %w", err)
	}

	reference := event.Reference()
	existing, err := s.findExisting(ctx, reference)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Warn("journal entry already exists for event reference, skipping",
			zap.String("event_type", event.EventType()),
			zap.String("reference", reference),
		)
		return existing, nil
	}

	source := event.Source()
	currency := valueobject.DefaultCurrency
	lines := make([]accounting.JournalLine, 0, len(rule.Lines))
	for _, ruleLine := range rule.Lines {
		rawAmount, err := source.Amount(ruleLine.AmountKey)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.EventType, err)
		}
		amount, err := valueobject.NewMoney(rawAmount, currency)
		if err != nil {
			return nil, fmt.Errorf("rule %q key %q: %w", rule.EventType, ruleLine.AmountKey, err)
		}

		description := ""
		if ruleLine.DescriptionTemplate != "" {
			description, err = source.ExpandTemplate(ruleLine.DescriptionTemplate)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", rule.EventType, err)
			}
		}

		line, err := accounting.NewJournalLine(ruleLine.AccountID, ruleLine.Side, amount, description)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return s.createAndPost(ctx, reference, event.PostingDate(), event.Description(), currency, lines)
}

// findExisting returns the entry for the reference, or nil when none exists
func (s *JournalingService) findExisting(ctx context.Context, reference string) (*accounting.JournalEntry, error) {
	entry, err := s.journalRepo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check existing journal entry: %w", err)
	}
	return entry, nil
}

// resolveAccount looks up an active account by chart code
func (s *JournalingService) resolveAccount(ctx context.Context, code string) (*accounting.ChartOfAccount, error) {
	account, err := s.accountRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: code %q", accounting.ErrAccountNotFound, code)
		}
		return nil, fmt.Errorf("failed to resolve account %q: %w", code, err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: code %q", accounting.ErrAccountInactive, code)
	}
	return account, nil
}

// resolvePeriod locates the period covering the date and enforces the
// posting gate: only a locked period blocks posting, a closed period does not
func (s *JournalingService) resolvePeriod(ctx context.Context, date time.Time) (*accounting.AccountingPeriod, error) {
	period, err := s.periodRepo.FindByDate(ctx, date)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", accounting.ErrPeriodNotFound, date.Format(time.DateOnly))
		}
		return nil, fmt.Errorf("failed to resolve period for %s: %w", date.Format(time.DateOnly), err)
	}
	if period.IsLocked() {
		return nil, fmt.Errorf("%w: %s", accounting.ErrPeriodLocked, period.Name)
	}
	return period, nil
}

// createAndPost builds the aggregate, posts it, and persists it atomically
// together with its domain events
func (s *JournalingService) createAndPost(
	ctx context.Context,
	reference string,
	date time.Time,
	description string,
	currency valueobject.Currency,
	lines []accounting.JournalLine,
) (*accounting.JournalEntry, error) {
	period, err := s.resolvePeriod(ctx, date)
	if err != nil {
		return nil, err
	}

	entry, err := accounting.NewJournalEntry(reference, date, description, period.ID, currency)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := entry.AddLine(line); err != nil {
			return nil, err
		}
	}

	if err := entry.Post(); err != nil {
		return nil, err
	}

	if err := s.journalRepo.Save(ctx, entry); err != nil {
		s.logger.Error("failed to save journal entry",
			zap.String("reference", reference),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}
	// Save committed the events alongside the entry; they are the outbox's
	// responsibility now
	entry.ClearDomainEvents()

	s.logger.Info("journal entry posted",
		zap.String("reference", entry.ReferenceNumber),
		zap.String("period_id", entry.PeriodID.String()),
		zap.String("total_debit", entry.TotalDebit().String()),
		zap.Int("lines", entry.LineCount()),
	)

	return entry, nil
}
