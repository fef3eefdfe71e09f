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

// RuleLineInput describes one debit/credit instruction when authoring a rule
type RuleLineInput struct {
	AccountCode         string
	Side                accounting.DebitCredit
	AmountKey           string
	DescriptionTemplate string
}

// PostingRuleService manages authoring of posting rules. It enforces the
// single-active-rule-per-event-type invariant and resolves account codes to
// IDs at authoring time, so posting never has to.
type PostingRuleService struct {
	ruleRepo    accounting.PostingRuleRepository
	accountRepo accounting.ChartOfAccountRepository
	logger      *zap.Logger
}

// NewPostingRuleService creates a new PostingRuleService
func NewPostingRuleService(
	ruleRepo accounting.PostingRuleRepository,
	accountRepo accounting.ChartOfAccountRepository,
	logger *zap.Logger,
) *PostingRuleService {
	return &PostingRuleService{
		ruleRepo:    ruleRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// CreateRule creates an active rule with the given lines. Fails when another
// active rule already exists for the event type.
func (s *PostingRuleService) CreateRule(ctx context.Context, eventType, description, module string, lines []RuleLineInput) (*accounting.PostingRule, error) {
	existing, err := s.ruleRepo.FindActiveByEventType(ctx, eventType)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing rule: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: active posting rule for %q", shared.ErrAlreadyExists, eventType)
	}

	rule, err := accounting.NewPostingRule(eventType, description, module)
	if err != nil {
		return nil, err
	}
	for _, input := range lines {
		line, err := s.buildLine(ctx, input)
		if err != nil {
			return nil, err
		}
		rule.AddLine(line)
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to save posting rule: %w", err)
	}

	s.logger.Info("posting rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("event_type", rule.EventType),
		zap.Int("lines", rule.LineCount()),
	)

	return rule, nil
}

// AddRuleLine appends a line to an existing rule
func (s *PostingRuleService) AddRuleLine(ctx context.Context, ruleID uuid.UUID, input RuleLineInput) (*accounting.PostingRule, error) {
	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	line, err := s.buildLine(ctx, input)
	if err != nil {
		return nil, err
	}
	rule.AddLine(line)

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to save posting rule: %w", err)
	}
	return rule, nil
}

// ActivateRule re-enables a rule for event matching. Fails when a different
// active rule already covers the event type.
func (s *PostingRuleService) ActivateRule(ctx context.Context, ruleID uuid.UUID) (*accounting.PostingRule, error) {
	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	active, err := s.ruleRepo.FindActiveByEventType(ctx, rule.EventType)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing rule: %w", err)
	}
	if active != nil && active.ID != rule.ID {
		return nil, fmt.Errorf("%w: active posting rule for %q", shared.ErrAlreadyExists, rule.EventType)
	}

	rule.Activate()
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to save posting rule: %w", err)
	}
	return rule, nil
}

// DeactivateRule disables a rule; its event type becomes untracked
func (s *PostingRuleService) DeactivateRule(ctx context.Context, ruleID uuid.UUID) (*accounting.PostingRule, error) {
	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	rule.Deactivate()
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to save posting rule: %w", err)
	}
	return rule, nil
}

// GetRule finds a rule by ID
func (s *PostingRuleService) GetRule(ctx context.Context, id uuid.UUID) (*accounting.PostingRule, error) {
	return s.ruleRepo.FindByID(ctx, id)
}

// ListRules lists rules with filtering
func (s *PostingRuleService) ListRules(ctx context.Context, filter shared.Filter) ([]accounting.PostingRule, error) {
	return s.ruleRepo.FindAll(ctx, filter)
}

// buildLine resolves the account code and constructs the rule line
func (s *PostingRuleService) buildLine(ctx context.Context, input RuleLineInput) (accounting.PostingRuleLine, error) {
	account, err := s.accountRepo.FindByCode(ctx, input.AccountCode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return accounting.PostingRuleLine{}, fmt.Errorf("%w: code %q", accounting.ErrAccountNotFound, input.AccountCode)
		}
		return accounting.PostingRuleLine{}, fmt.Errorf("failed to resolve account %q: %w", input.AccountCode, err)
	}
	return accounting.NewPostingRuleLine(account.ID, input.Side, input.AmountKey, input.DescriptionTemplate)
}
