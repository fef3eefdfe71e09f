package accounting

import (
	"context"
	"testing"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAccountService_CreateAccount(t *testing.T) {
	repo := new(MockChartOfAccountRepository)
	service := NewAccountService(repo, zap.NewNop())

	repo.On("FindByCode", mock.Anything, "1100").Return(nil, shared.ErrNotFound)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*accounting.ChartOfAccount")).
		Return(nil)

	account, err := service.CreateAccount(context.Background(), "1100", "Accounts Receivable", accounting.AccountTypeAsset)

	require.NoError(t, err)
	assert.Equal(t, "1100", account.Code)
	assert.True(t, account.IsActive)
	repo.AssertExpectations(t)
}

func TestAccountService_CreateAccount_CodeTaken(t *testing.T) {
	repo := new(MockChartOfAccountRepository)
	service := NewAccountService(repo, zap.NewNop())

	repo.On("FindByCode", mock.Anything, "1100").Return(testAccount(t, "1100"), nil)

	_, err := service.CreateAccount(context.Background(), "1100", "Duplicate", accounting.AccountTypeAsset)

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAccountService_CreateAccount_InvalidType(t *testing.T) {
	repo := new(MockChartOfAccountRepository)
	service := NewAccountService(repo, zap.NewNop())

	repo.On("FindByCode", mock.Anything, "1100").Return(nil, shared.ErrNotFound)

	_, err := service.CreateAccount(context.Background(), "1100", "Broken", "CONTRA")

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAccountService_DeactivateAndActivate(t *testing.T) {
	repo := new(MockChartOfAccountRepository)
	service := NewAccountService(repo, zap.NewNop())
	account := testAccount(t, "1100")

	repo.On("FindByID", mock.Anything, account.ID).Return(account, nil)
	repo.On("Save", mock.Anything, account).Return(nil)

	deactivated, err := service.DeactivateAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	activated, err := service.ActivateAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)
}
