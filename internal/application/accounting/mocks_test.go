package accounting

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockChartOfAccountRepository struct {
	mock.Mock
}

func (m *MockChartOfAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.ChartOfAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.ChartOfAccount), args.Error(1)
}

func (m *MockChartOfAccountRepository) FindByCode(ctx context.Context, code string) (*accounting.ChartOfAccount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.ChartOfAccount), args.Error(1)
}

func (m *MockChartOfAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.ChartOfAccount, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.ChartOfAccount), args.Error(1)
}

func (m *MockChartOfAccountRepository) Save(ctx context.Context, account *accounting.ChartOfAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockChartOfAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockJournalEntryRepository struct {
	mock.Mock
}

func (m *MockJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.JournalEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) FindByReference(ctx context.Context, referenceNumber string) (*accounting.JournalEntry, error) {
	args := m.Called(ctx, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) ExistsByReference(ctx context.Context, referenceNumber string) (bool, error) {
	args := m.Called(ctx, referenceNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockJournalEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.JournalEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) Save(ctx context.Context, entry *accounting.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) NextJournalNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockAccountingPeriodRepository struct {
	mock.Mock
}

func (m *MockAccountingPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.AccountingPeriod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) FindByDate(ctx context.Context, date time.Time) (*accounting.AccountingPeriod, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) FindOpenPeriodForDate(ctx context.Context, date time.Time) (*accounting.AccountingPeriod, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) FindOverlapping(ctx context.Context, dateRange valueobject.DateRange, excludeID *uuid.UUID) ([]accounting.AccountingPeriod, error) {
	args := m.Called(ctx, dateRange, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.AccountingPeriod, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) Save(ctx context.Context, period *accounting.AccountingPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockAccountingPeriodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPostingRuleRepository struct {
	mock.Mock
}

func (m *MockPostingRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.PostingRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.PostingRule), args.Error(1)
}

func (m *MockPostingRuleRepository) FindActiveByEventType(ctx context.Context, eventType string) (*accounting.PostingRule, error) {
	args := m.Called(ctx, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.PostingRule), args.Error(1)
}

func (m *MockPostingRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.PostingRule, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.PostingRule), args.Error(1)
}

func (m *MockPostingRuleRepository) Save(ctx context.Context, rule *accounting.PostingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockPostingRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
