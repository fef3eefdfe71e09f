package accounting

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService manages the chart of accounts
type AccountService struct {
	accountRepo accounting.ChartOfAccountRepository
	logger      *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo accounting.ChartOfAccountRepository, logger *zap.Logger) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// CreateAccount creates a new active account. Fails when the code is taken.
func (s *AccountService) CreateAccount(ctx context.Context, code, name string, accountType accounting.AccountType) (*accounting.ChartOfAccount, error) {
	existing, err := s.accountRepo.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %q", shared.ErrAlreadyExists, code)
	}

	account, err := accounting.NewChartOfAccount(code, name, accountType)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.logger.Info("account created",
		zap.String("account_id", account.ID.String()),
		zap.String("code", account.Code),
		zap.String("type", account.Type.String()),
	)

	return account, nil
}

// ActivateAccount re-enables an account for posting
func (s *AccountService) ActivateAccount(ctx context.Context, id uuid.UUID) (*accounting.ChartOfAccount, error) {
	return s.setActive(ctx, id, true)
}

// DeactivateAccount marks an account as no longer postable. Existing journal
// lines keep referencing it.
func (s *AccountService) DeactivateAccount(ctx context.Context, id uuid.UUID) (*accounting.ChartOfAccount, error) {
	return s.setActive(ctx, id, false)
}

// GetAccount finds an account by ID
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*accounting.ChartOfAccount, error) {
	return s.accountRepo.FindByID(ctx, id)
}

// GetAccountByCode finds an account by chart code
func (s *AccountService) GetAccountByCode(ctx context.Context, code string) (*accounting.ChartOfAccount, error) {
	return s.accountRepo.FindByCode(ctx, code)
}

// ListAccounts lists accounts with filtering
func (s *AccountService) ListAccounts(ctx context.Context, filter shared.Filter) ([]accounting.ChartOfAccount, error) {
	return s.accountRepo.FindAll(ctx, filter)
}

func (s *AccountService) setActive(ctx context.Context, id uuid.UUID, active bool) (*accounting.ChartOfAccount, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		account.Activate()
	} else {
		account.Deactivate()
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	return account, nil
}
