package accounting

import (
	"github.com/erp/ledger/internal/domain/shared"
)

// AccountType represents the chart-of-accounts category of an account
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// IsValid checks if the account type is a valid AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// Account resolution errors
var (
	ErrAccountNotFound = shared.NewDomainError("ACCOUNT_NOT_FOUND", "No account exists for the given code or ID")
	ErrAccountInactive = shared.NewDomainError("ACCOUNT_INACTIVE", "Account is deactivated and cannot receive postings")
)

// ChartOfAccount represents a postable account in the chart of accounts.
// Journal lines reference accounts by ID; inbound posting payloads reference
// them by code and are resolved through the repository.
type ChartOfAccount struct {
	shared.BaseEntity
	Code     string      `json:"code"`
	Name     string      `json:"name"`
	Type     AccountType `json:"type"`
	IsActive bool        `json:"is_active"`
}

// NewChartOfAccount creates a new active account
func NewChartOfAccount(code, name string, accountType AccountType) (*ChartOfAccount, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Account type is not valid")
	}

	return &ChartOfAccount{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Type:       accountType,
		IsActive:   true,
	}, nil
}

// Deactivate marks the account as no longer postable
func (a *ChartOfAccount) Deactivate() {
	a.IsActive = false
}

// Activate re-enables the account for posting
func (a *ChartOfAccount) Activate() {
	a.IsActive = true
}
