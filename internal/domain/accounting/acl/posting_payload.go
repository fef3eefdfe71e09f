package acl

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PayloadLine is one debit or credit instruction of a translated posting
// payload. The account is referenced by chart code; the journaling service
// resolves it to an account ID.
type PayloadLine struct {
	AccountCode string          `json:"account_code"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"` // "debit" or "credit"
	Description string          `json:"description,omitempty"`
}

// Side maps the line's type string to a domain DebitCredit side
func (l PayloadLine) Side() (accounting.DebitCredit, error) {
	switch strings.ToLower(l.Type) {
	case "debit":
		return accounting.Debit, nil
	case "credit":
		return accounting.Credit, nil
	default:
		return "", shared.NewDomainError("INVALID_SIDE", fmt.Sprintf("Payload line type %q must be \"debit\" or \"credit\"", l.Type))
	}
}

// PostingPayload is the generic translated event payload consumed by the
// journaling service: a dated, described set of account-code lines. Reference
// doubles as the idempotency key for the resulting journal entry; Currency
// defaults to the system currency when empty.
type PostingPayload struct {
	Date        time.Time            `json:"date"`
	Description string               `json:"description"`
	Reference   string               `json:"reference,omitempty"`
	Currency    valueobject.Currency `json:"currency,omitempty"`
	Lines       []PayloadLine        `json:"lines"`
}

// Validate checks the payload's structural invariants before translation
func (p PostingPayload) Validate() error {
	if p.Date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Posting payload date cannot be empty")
	}
	if len(p.Lines) == 0 {
		return shared.NewDomainError("EMPTY_PAYLOAD", "Posting payload has no lines")
	}
	for i, line := range p.Lines {
		if line.AccountCode == "" {
			return shared.NewDomainError("INVALID_ACCOUNT_CODE", fmt.Sprintf("Payload line %d has no account code", i))
		}
		if line.Amount.IsNegative() {
			return fmt.Errorf("payload line %d: %w", i, valueobject.ErrInvalidAmount)
		}
		if _, err := line.Side(); err != nil {
			return fmt.Errorf("payload line %d: %w", i, err)
		}
	}
	return nil
}

// EffectiveCurrency returns the payload currency, defaulting when unset
func (p PostingPayload) EffectiveCurrency() valueobject.Currency {
	if p.Currency == "" {
		return valueobject.DefaultCurrency
	}
	return p.Currency
}
