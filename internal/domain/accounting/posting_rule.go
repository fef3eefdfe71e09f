package accounting

import (
	"fmt"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// PostingRuleLine is a declarative debit/credit instruction within a
// PostingRule. AmountKey names the field to read from the source document;
// DescriptionTemplate may contain {field} placeholders expanded from the same
// source.
type PostingRuleLine struct {
	AccountID           uuid.UUID   `json:"account_id"`
	Side                DebitCredit `json:"side"`
	AmountKey           string      `json:"amount_key"`
	DescriptionTemplate string      `json:"description_template,omitempty"`
}

// NewPostingRuleLine creates a new posting rule line
func NewPostingRuleLine(accountID uuid.UUID, side DebitCredit, amountKey, descriptionTemplate string) (PostingRuleLine, error) {
	if accountID == uuid.Nil {
		return PostingRuleLine{}, shared.NewDomainError("INVALID_ACCOUNT_ID", "Rule line account ID cannot be empty")
	}
	if !side.IsValid() {
		return PostingRuleLine{}, shared.NewDomainError("INVALID_SIDE", fmt.Sprintf("Rule line side %q is not valid", side))
	}
	if amountKey == "" {
		return PostingRuleLine{}, shared.NewDomainError("INVALID_AMOUNT_KEY", "Rule line amount key cannot be empty")
	}
	return PostingRuleLine{
		AccountID:           accountID,
		Side:                side,
		AmountKey:           amountKey,
		DescriptionTemplate: descriptionTemplate,
	}, nil
}

// PostingRule maps a domain event type to an ordered set of debit/credit
// instructions. Line order is insertion order and determines journal-line
// order. Rule authoring is not validated for business correctness here:
// duplicate accounts or a rule that cannot balance are authoring concerns
// that surface as ErrUnbalancedEntry at posting time.
type PostingRule struct {
	shared.BaseAggregateRoot
	EventType   string            `json:"event_type"`
	Description string            `json:"description"`
	Module      string            `json:"module"`
	IsActive    bool              `json:"is_active"`
	Lines       []PostingRuleLine `json:"lines"`
}

// NewPostingRule creates a new active rule with no lines
func NewPostingRule(eventType, description, module string) (*PostingRule, error) {
	if eventType == "" {
		return nil, shared.NewDomainError("INVALID_EVENT_TYPE", "Posting rule event type cannot be empty")
	}

	return &PostingRule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EventType:         eventType,
		Description:       description,
		Module:            module,
		IsActive:          true,
		Lines:             make([]PostingRuleLine, 0),
	}, nil
}

// ReconstructPostingRule rebuilds an existing rule plus its lines from
// storage, preserving line order
func ReconstructPostingRule(
	base shared.BaseAggregateRoot,
	eventType, description, module string,
	isActive bool,
	lines []PostingRuleLine,
) (*PostingRule, error) {
	if eventType == "" {
		return nil, shared.NewDomainError("INVALID_EVENT_TYPE", "Posting rule event type cannot be empty")
	}
	return &PostingRule{
		BaseAggregateRoot: base,
		EventType:         eventType,
		Description:       description,
		Module:            module,
		IsActive:          isActive,
		Lines:             lines,
	}, nil
}

// AddLine appends a line to the ordered line list
func (r *PostingRule) AddLine(line PostingRuleLine) {
	r.Lines = append(r.Lines, line)
}

// Activate enables the rule for event matching
func (r *PostingRule) Activate() {
	r.IsActive = true
	r.IncrementVersion()
}

// Deactivate disables the rule; events of its type produce no postings
func (r *PostingRule) Deactivate() {
	r.IsActive = false
	r.IncrementVersion()
}

// LineCount returns the number of lines on the rule
func (r *PostingRule) LineCount() int {
	return len(r.Lines)
}
