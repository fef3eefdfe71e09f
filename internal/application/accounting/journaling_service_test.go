package accounting

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/accounting/acl"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type journalingFixture struct {
	accountRepo *MockChartOfAccountRepository
	journalRepo *MockJournalEntryRepository
	periodRepo  *MockAccountingPeriodRepository
	ruleRepo    *MockPostingRuleRepository
	service     *JournalingService
}

func newJournalingFixture() *journalingFixture {
	f := &journalingFixture{
		accountRepo: new(MockChartOfAccountRepository),
		journalRepo: new(MockJournalEntryRepository),
		periodRepo:  new(MockAccountingPeriodRepository),
		ruleRepo:    new(MockPostingRuleRepository),
	}
	f.service = NewJournalingService(
		f.accountRepo, f.journalRepo, f.periodRepo, f.ruleRepo, zap.NewNop(),
	)
	return f
}

func (f *journalingFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.accountRepo.AssertExpectations(t)
	f.journalRepo.AssertExpectations(t)
	f.periodRepo.AssertExpectations(t)
	f.ruleRepo.AssertExpectations(t)
}

func openPeriod(t *testing.T) *accounting.AccountingPeriod {
	t.Helper()
	r, err := valueobject.NewDateRange(
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	period, err := accounting.NewAccountingPeriod("2025-01", r)
	require.NoError(t, err)
	return period
}

func testAccount(t *testing.T, code string) *accounting.ChartOfAccount {
	t.Helper()
	account, err := accounting.NewChartOfAccount(code, "Account "+code, accounting.AccountTypeAsset)
	require.NoError(t, err)
	return account
}

func invoicePayload() acl.PostingPayload {
	return acl.PostingPayload{
		Date:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Invoice INV-TEST-001",
		Reference:   "INV-TEST-001",
		Currency:    "USD",
		Lines: []acl.PayloadLine{
			{AccountCode: "1100", Amount: decimal.NewFromInt(500), Type: "debit", Description: "Accounts receivable"},
			{AccountCode: "4000", Amount: decimal.NewFromInt(500), Type: "credit", Description: "Sales revenue"},
		},
	}
}

func TestJournalingService_Process(t *testing.T) {
	f := newJournalingFixture()
	payload := invoicePayload()
	receivable := testAccount(t, "1100")
	revenue := testAccount(t, "4000")
	period := openPeriod(t)

	f.journalRepo.On("FindByReference", mock.Anything, "INV-TEST-001").
		Return(nil, shared.ErrNotFound)
	f.accountRepo.On("FindByCode", mock.Anything, "1100").Return(receivable, nil)
	f.accountRepo.On("FindByCode", mock.Anything, "4000").Return(revenue, nil)
	f.periodRepo.On("FindByDate", mock.Anything, payload.Date).Return(period, nil)
	f.journalRepo.On("Save", mock.Anything, mock.AnythingOfType("*accounting.JournalEntry")).
		Return(nil)

	entry, err := f.service.Process(context.Background(), payload)

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "INV-TEST-001", entry.ReferenceNumber)
	assert.True(t, entry.IsPosted())
	assert.Equal(t, period.ID, entry.PeriodID)
	require.Equal(t, 2, entry.LineCount())
	assert.Equal(t, receivable.ID, entry.Lines[0].AccountID)
	assert.Equal(t, accounting.Debit, entry.Lines[0].Side)
	assert.Equal(t, revenue.ID, entry.Lines[1].AccountID)
	assert.Equal(t, accounting.Credit, entry.Lines[1].Side)
	assert.Equal(t, "500.00", entry.TotalDebit().Format(2))
	f.assertExpectations(t)
}

func TestJournalingService_Process_ExistingReference(t *testing.T) {
	f := newJournalingFixture()
	payload := invoicePayload()

	existing, err := accounting.NewJournalEntry(
		"INV-TEST-001", payload.Date, "Invoice INV-TEST-001", uuid.New(), "USD",
	)
	require.NoError(t, err)

	f.journalRepo.On("FindByReference", mock.Anything, "INV-TEST-001").
		Return(existing, nil)

	entry, err := f.service.Process(context.Background(), payload)

	require.NoError(t, err)
	assert.Same(t, existing, entry)
	f.journalRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestJournalingService_Process_GeneratesReference(t *testing.T) {
	f := newJournalingFixture()
	payload := invoicePayload()
	payload.Reference = ""
	period := openPeriod(t)

	f.journalRepo.On("NextJournalNumber", mock.Anything).
		Return("JE-20250115-00001", nil)
	f.accountRepo.On("FindByCode", mock.Anything, "1100").Return(testAccount(t, "1100"), nil)
	f.accountRepo.On("FindByCode", mock.Anything, "4000").Return(testAccount(t, "4000"), nil)
	f.periodRepo.On("FindByDate", mock.Anything, payload.Date).Return(period, nil)
	f.journalRepo.On("Save", mock.Anything, mock.AnythingOfType("*accounting.JournalEntry")).
		Return(nil)

	entry, err := f.service.Process(context.Background(), payload)

	require.NoError(t, err)
	assert.Equal(t, "JE-20250115-00001", entry.ReferenceNumber)
	f.journalRepo.AssertNotCalled(t, "FindByReference", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestJournalingService_Process_AccountNotFound(t *testing.T) {
	f := newJournalingFixture()
	payload := invoicePayload()

	f.journalRepo.On("FindByReference", mock.Anything, "INV-TEST-001").
		Return(nil, shared.ErrNotFound)
	f.accountRepo.On("FindByCode", mock.Anything, "1100").
		Return(nil, shared.ErrNotFound)

	entry, err := f.service.Process(context.Background(), payload)

	assert.ErrorIs(t, err, accounting.ErrAccountNotFound)
	assert.Nil(t, entry)
	f.journalRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestJournalingService_Process_InactiveAccount(t *testing.T) {
	f := newJournalingFixture()
	payload := invoicePayload()
	inactive := testAccount(t, "1100")
	inactive.Deactivate()

	f.journalRepo.On("FindByReference", mock.Anything, "INV-TEST-001").
		Return(nil, shared.ErrNotFound)
	f.accountRepo.On("FindByCode", mock.Anything, "1100").Return(inactive, nil)

	entry, err := f.service.Process(context.Background(), payload)

	assert.ErrorIs(t, err, accounting.ErrAccountInactive)
	assert.Nil(t, entry)
	f.journalRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestJournalingService_Process_LockedPeriod(t *testing.T) {
	f := newJournalingFixture()
	payload := invoicePayload()
	period := openPeriod(t)
	require.NoError(t, period.Lock(uuid.New()))

	f.journalRepo.On("FindByReference", mock.Anything, "INV-TEST-001").
		Return(nil, shared.ErrNotFound)
	f.accountRepo.On("FindByCode", mock.Anything, "1100").Return(testAccount(t, "1100"), nil)
	f.accountRepo.On("FindByCode", mock.Anything, "4000").Return(testAccount(t, "4000"), nil)
	f.periodRepo.On("FindByDate", mock.Anything, payload.Date).Return(period, nil)

	entry, err := f.service.Process(context.Background(), payload)

	assert.ErrorIs(t, err, accounting.ErrPeriodLocked)
	assert.Nil(t, entry)
	f.journalRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestJournalingService_Process_ClosedPeriodStillPosts(t *testing.T) {
	f := newJournalingFixture()
	payload := invoicePayload()
	period := openPeriod(t)
	require.NoError(t, period.Close())

	f.journalRepo.On("FindByReference", mock.Anything, "INV-TEST-001").
		Return(nil, shared.ErrNotFound)
	f.accountRepo.On("FindByCode", mock.Anything, "1100").Return(testAccount(t, "1100"), nil)
	f.accountRepo.On("FindByCode", mock.Anything, "4000").Return(testAccount(t, "4000"), nil)
	f.periodRepo.On("FindByDate", mock.Anything, payload.Date).Return(period, nil)
	f.journalRepo.On("Save", mock.Anything, mock.AnythingOfType("*accounting.JournalEntry")).
		Return(nil)

	entry, err := f.service.Process(context.Background(), payload)

	require.NoError(t, err)
	assert.True(t, entry.IsPosted())
	f.assertExpectations(t)
}

func TestJournalingService_Process_NoPeriodForDate(t *testing.T) {
	f := newJournalingFixture()
	payload := invoicePayload()

	f.journalRepo.On("FindByReference", mock.Anything, "INV-TEST-001").
		Return(nil, shared.ErrNotFound)
	f.accountRepo.On("FindByCode", mock.Anything, "1100").Return(testAccount(t, "1100"), nil)
	f.accountRepo.On("FindByCode", mock.Anything, "4000").Return(testAccount(t, "4000"), nil)
	f.periodRepo.On("FindByDate", mock.Anything, payload.Date).
		Return(nil, shared.ErrNotFound)

	entry, err := f.service.Process(context.Background(), payload)

	assert.ErrorIs(t, err, accounting.ErrPeriodNotFound)
	assert.Nil(t, entry)
	f.journalRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestJournalingService_Process_UnbalancedPayload(t *testing.T) {
	f := newJournalingFixture()
	payload := invoicePayload()
	payload.Lines[1].Amount = decimal.NewFromInt(400)
	period := openPeriod(t)

	f.journalRepo.On("FindByReference", mock.Anything, "INV-TEST-001").
		Return(nil, shared.ErrNotFound)
	f.accountRepo.On("FindByCode", mock.Anything, "1100").Return(testAccount(t, "1100"), nil)
	f.accountRepo.On("FindByCode", mock.Anything, "4000").Return(testAccount(t, "4000"), nil)
	f.periodRepo.On("FindByDate", mock.Anything, payload.Date).Return(period, nil)

	entry, err := f.service.Process(context.Background(), payload)

	assert.ErrorIs(t, err, accounting.ErrUnbalancedEntry)
	assert.Nil(t, entry)
	f.journalRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestJournalingService_Process_EventsHandedToSave(t *testing.T) {
	f := newJournalingFixture()
	payload := invoicePayload()
	period := openPeriod(t)

	f.journalRepo.On("FindByReference", mock.Anything, "INV-TEST-001").
		Return(nil, shared.ErrNotFound)
	f.accountRepo.On("FindByCode", mock.Anything, "1100").Return(testAccount(t, "1100"), nil)
	f.accountRepo.On("FindByCode", mock.Anything, "4000").Return(testAccount(t, "4000"), nil)
	f.periodRepo.On("FindByDate", mock.Anything, payload.Date).Return(period, nil)

	// The posted event must still be pending on the aggregate when Save runs,
	// so the repository can write it to the outbox in the same transaction
	var eventsAtSave []shared.DomainEvent
	f.journalRepo.On("Save", mock.Anything, mock.AnythingOfType("*accounting.JournalEntry")).
		Run(func(args mock.Arguments) {
			saved := args.Get(1).(*accounting.JournalEntry)
			eventsAtSave = append([]shared.DomainEvent{}, saved.GetDomainEvents()...)
		}).
		Return(nil)

	entry, err := f.service.Process(context.Background(), payload)

	require.NoError(t, err)
	require.Len(t, eventsAtSave, 1)
	assert.Equal(t, "JournalEntryPosted", eventsAtSave[0].EventType())
	assert.Empty(t, entry.GetDomainEvents())
}

func invoiceRule(t *testing.T, receivableID, revenueID uuid.UUID) *accounting.PostingRule {
	t.Helper()
	rule, err := accounting.NewPostingRule(acl.EventTypeSalesInvoicePosted, "Sales invoice posting", "sales")
	require.NoError(t, err)

	debit, err := accounting.NewPostingRuleLine(receivableID, accounting.Debit, "total_amount", "Invoice {invoice_number}")
	require.NoError(t, err)
	credit, err := accounting.NewPostingRuleLine(revenueID, accounting.Credit, "total_amount", "Invoice {invoice_number}")
	require.NoError(t, err)
	rule.AddLine(debit)
	rule.AddLine(credit)
	return rule
}

func TestJournalingService_ProcessRuleEvent(t *testing.T) {
	f := newJournalingFixture()
	receivableID := uuid.New()
	revenueID := uuid.New()
	rule := invoiceRule(t, receivableID, revenueID)
	period := openPeriod(t)

	event := acl.NewSalesInvoicePostedEvent(
		uuid.New(), "INV-TEST-001", "Acme Corp",
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(500), decimal.Zero,
	)

	f.ruleRepo.On("FindActiveByEventType", mock.Anything, acl.EventTypeSalesInvoicePosted).
		Return(rule, nil)
	f.journalRepo.On("FindByReference", mock.Anything, "INV-TEST-001").
		Return(nil, shared.ErrNotFound)
	f.periodRepo.On("FindByDate", mock.Anything, event.PostingDate()).Return(period, nil)
	f.journalRepo.On("Save", mock.Anything, mock.AnythingOfType("*accounting.JournalEntry")).
		Return(nil)

	entry, err := f.service.ProcessRuleEvent(context.Background(), event)

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.True(t, entry.IsPosted())
	assert.Equal(t, "INV-TEST-001", entry.ReferenceNumber)
	require.Equal(t, 2, entry.LineCount())
	assert.Equal(t, receivableID, entry.Lines[0].AccountID)
	assert.Equal(t, "Invoice INV-TEST-001", entry.Lines[0].Description)
	assert.Equal(t, revenueID, entry.Lines[1].AccountID)
	assert.Equal(t, "500.00", entry.TotalCredit().Format(2))
	f.assertExpectations(t)
}

func TestJournalingService_ProcessRuleEvent_NoActiveRule(t *testing.T) {
	f := newJournalingFixture()

	event := acl.NewGoodsReceiptPostedEvent(
		uuid.New(), "GR-001", "Supplies Inc",
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(250),
	)

	f.ruleRepo.On("FindActiveByEventType", mock.Anything, acl.EventTypeGoodsReceiptPosted).
		Return(nil, shared.ErrNotFound)

	entry, err := f.service.ProcessRuleEvent(context.Background(), event)

	assert.NoError(t, err)
	assert.Nil(t, entry)
	f.journalRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestJournalingService_ProcessRuleEvent_ExistingReference(t *testing.T) {
	f := newJournalingFixture()
	rule := invoiceRule(t, uuid.New(), uuid.New())

	event := acl.NewSalesInvoicePostedEvent(
		uuid.New(), "INV-TEST-001", "Acme Corp",
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(500), decimal.Zero,
	)

	existing, err := accounting.NewJournalEntry(
		"INV-TEST-001", event.PostingDate(), "Invoice INV-TEST-001", uuid.New(), "USD",
	)
	require.NoError(t, err)

	f.ruleRepo.On("FindActiveByEventType", mock.Anything, acl.EventTypeSalesInvoicePosted).
		Return(rule, nil)
	f.journalRepo.On("FindByReference", mock.Anything, "INV-TEST-001").
		Return(existing, nil)

	entry, err := f.service.ProcessRuleEvent(context.Background(), event)

	require.NoError(t, err)
	assert.Same(t, existing, entry)
	f.journalRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestJournalingService_ProcessRuleEvent_UnbalancedRule(t *testing.T) {
	f := newJournalingFixture()
	period := openPeriod(t)

	// Rule debits the gross but credits only the tax: an authoring bug
	rule, err := accounting.NewPostingRule(acl.EventTypeSalesInvoicePosted, "", "sales")
	require.NoError(t, err)
	debit, err := accounting.NewPostingRuleLine(uuid.New(), accounting.Debit, "total_amount", "")
	require.NoError(t, err)
	credit, err := accounting.NewPostingRuleLine(uuid.New(), accounting.Credit, "tax_amount", "")
	require.NoError(t, err)
	rule.AddLine(debit)
	rule.AddLine(credit)

	event := acl.NewSalesInvoicePostedEvent(
		uuid.New(), "INV-TEST-002", "Acme Corp",
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(500), decimal.NewFromInt(50),
	)

	f.ruleRepo.On("FindActiveByEventType", mock.Anything, acl.EventTypeSalesInvoicePosted).
		Return(rule, nil)
	f.journalRepo.On("FindByReference", mock.Anything, "INV-TEST-002").
		Return(nil, shared.ErrNotFound)
	f.periodRepo.On("FindByDate", mock.Anything, event.PostingDate()).Return(period, nil)

	entry, err := f.service.ProcessRuleEvent(context.Background(), event)

	assert.ErrorIs(t, err, accounting.ErrUnbalancedEntry)
	assert.Nil(t, entry)
	f.journalRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestJournalingService_ProcessRuleEvent_MissingAmountKey(t *testing.T) {
	f := newJournalingFixture()

	rule, err := accounting.NewPostingRule(acl.EventTypeGoodsReceiptPosted, "", "purchasing")
	require.NoError(t, err)
	line, err := accounting.NewPostingRuleLine(uuid.New(), accounting.Debit, "grand_total", "")
	require.NoError(t, err)
	rule.AddLine(line)

	event := acl.NewGoodsReceiptPostedEvent(
		uuid.New(), "GR-002", "Supplies Inc",
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(250),
	)

	f.ruleRepo.On("FindActiveByEventType", mock.Anything, acl.EventTypeGoodsReceiptPosted).
		Return(rule, nil)
	f.journalRepo.On("FindByReference", mock.Anything, "GR-002").
		Return(nil, shared.ErrNotFound)

	entry, err := f.service.ProcessRuleEvent(context.Background(), event)

	assert.ErrorIs(t, err, acl.ErrFieldNotFound)
	assert.Nil(t, entry)
	f.journalRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
