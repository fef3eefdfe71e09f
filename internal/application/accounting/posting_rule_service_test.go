package accounting

import (
	"context"
	"testing"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/accounting/acl"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ruleLineInputs() []RuleLineInput {
	return []RuleLineInput{
		{AccountCode: "1100", Side: accounting.Debit, AmountKey: "total_amount", DescriptionTemplate: "Invoice {invoice_number}"},
		{AccountCode: "4000", Side: accounting.Credit, AmountKey: "total_amount"},
	}
}

func TestPostingRuleService_CreateRule(t *testing.T) {
	ruleRepo := new(MockPostingRuleRepository)
	accountRepo := new(MockChartOfAccountRepository)
	service := NewPostingRuleService(ruleRepo, accountRepo, zap.NewNop())

	receivable := testAccount(t, "1100")
	revenue := testAccount(t, "4000")

	ruleRepo.On("FindActiveByEventType", mock.Anything, acl.EventTypeSalesInvoicePosted).
		Return(nil, shared.ErrNotFound)
	accountRepo.On("FindByCode", mock.Anything, "1100").Return(receivable, nil)
	accountRepo.On("FindByCode", mock.Anything, "4000").Return(revenue, nil)
	ruleRepo.On("Save", mock.Anything, mock.AnythingOfType("*accounting.PostingRule")).
		Return(nil)

	rule, err := service.CreateRule(context.Background(),
		acl.EventTypeSalesInvoicePosted, "Sales invoice posting", "sales", ruleLineInputs())

	require.NoError(t, err)
	assert.True(t, rule.IsActive)
	require.Equal(t, 2, rule.LineCount())
	assert.Equal(t, receivable.ID, rule.Lines[0].AccountID)
	assert.Equal(t, revenue.ID, rule.Lines[1].AccountID)
	ruleRepo.AssertExpectations(t)
	accountRepo.AssertExpectations(t)
}

func TestPostingRuleService_CreateRule_DuplicateActive(t *testing.T) {
	ruleRepo := new(MockPostingRuleRepository)
	accountRepo := new(MockChartOfAccountRepository)
	service := NewPostingRuleService(ruleRepo, accountRepo, zap.NewNop())

	existing, err := accounting.NewPostingRule(acl.EventTypeSalesInvoicePosted, "", "sales")
	require.NoError(t, err)

	ruleRepo.On("FindActiveByEventType", mock.Anything, acl.EventTypeSalesInvoicePosted).
		Return(existing, nil)

	_, err = service.CreateRule(context.Background(),
		acl.EventTypeSalesInvoicePosted, "", "sales", ruleLineInputs())

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	ruleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPostingRuleService_CreateRule_UnknownAccount(t *testing.T) {
	ruleRepo := new(MockPostingRuleRepository)
	accountRepo := new(MockChartOfAccountRepository)
	service := NewPostingRuleService(ruleRepo, accountRepo, zap.NewNop())

	ruleRepo.On("FindActiveByEventType", mock.Anything, acl.EventTypeSalesInvoicePosted).
		Return(nil, shared.ErrNotFound)
	accountRepo.On("FindByCode", mock.Anything, "1100").
		Return(nil, shared.ErrNotFound)

	_, err := service.CreateRule(context.Background(),
		acl.EventTypeSalesInvoicePosted, "", "sales", ruleLineInputs())

	assert.ErrorIs(t, err, accounting.ErrAccountNotFound)
	ruleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPostingRuleService_AddRuleLine(t *testing.T) {
	ruleRepo := new(MockPostingRuleRepository)
	accountRepo := new(MockChartOfAccountRepository)
	service := NewPostingRuleService(ruleRepo, accountRepo, zap.NewNop())

	rule, err := accounting.NewPostingRule(acl.EventTypeSalesInvoicePosted, "", "sales")
	require.NoError(t, err)
	tax := testAccount(t, "2200")

	ruleRepo.On("FindByID", mock.Anything, rule.ID).Return(rule, nil)
	accountRepo.On("FindByCode", mock.Anything, "2200").Return(tax, nil)
	ruleRepo.On("Save", mock.Anything, rule).Return(nil)

	updated, err := service.AddRuleLine(context.Background(), rule.ID, RuleLineInput{
		AccountCode: "2200",
		Side:        accounting.Credit,
		AmountKey:   "tax_amount",
	})

	require.NoError(t, err)
	require.Equal(t, 1, updated.LineCount())
	assert.Equal(t, tax.ID, updated.Lines[0].AccountID)
	assert.Equal(t, "tax_amount", updated.Lines[0].AmountKey)
}

func TestPostingRuleService_ActivateRule(t *testing.T) {
	ruleRepo := new(MockPostingRuleRepository)
	accountRepo := new(MockChartOfAccountRepository)
	service := NewPostingRuleService(ruleRepo, accountRepo, zap.NewNop())

	rule, err := accounting.NewPostingRule(acl.EventTypeGoodsReceiptPosted, "", "purchasing")
	require.NoError(t, err)
	rule.Deactivate()

	ruleRepo.On("FindByID", mock.Anything, rule.ID).Return(rule, nil)
	ruleRepo.On("FindActiveByEventType", mock.Anything, acl.EventTypeGoodsReceiptPosted).
		Return(nil, shared.ErrNotFound)
	ruleRepo.On("Save", mock.Anything, rule).Return(nil)

	activated, err := service.ActivateRule(context.Background(), rule.ID)

	require.NoError(t, err)
	assert.True(t, activated.IsActive)
}

func TestPostingRuleService_ActivateRule_AnotherActive(t *testing.T) {
	ruleRepo := new(MockPostingRuleRepository)
	accountRepo := new(MockChartOfAccountRepository)
	service := NewPostingRuleService(ruleRepo, accountRepo, zap.NewNop())

	rule, err := accounting.NewPostingRule(acl.EventTypeGoodsReceiptPosted, "", "purchasing")
	require.NoError(t, err)
	rule.Deactivate()
	other, err := accounting.NewPostingRule(acl.EventTypeGoodsReceiptPosted, "", "purchasing")
	require.NoError(t, err)

	ruleRepo.On("FindByID", mock.Anything, rule.ID).Return(rule, nil)
	ruleRepo.On("FindActiveByEventType", mock.Anything, acl.EventTypeGoodsReceiptPosted).
		Return(other, nil)

	_, err = service.ActivateRule(context.Background(), rule.ID)

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	assert.False(t, rule.IsActive)
	ruleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPostingRuleService_DeactivateRule(t *testing.T) {
	ruleRepo := new(MockPostingRuleRepository)
	accountRepo := new(MockChartOfAccountRepository)
	service := NewPostingRuleService(ruleRepo, accountRepo, zap.NewNop())

	rule, err := accounting.NewPostingRule(acl.EventTypeGoodsReceiptPosted, "", "purchasing")
	require.NoError(t, err)

	ruleRepo.On("FindByID", mock.Anything, rule.ID).Return(rule, nil)
	ruleRepo.On("Save", mock.Anything, rule).Return(nil)

	deactivated, err := service.DeactivateRule(context.Background(), rule.ID)

	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
}
