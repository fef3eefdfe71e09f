package models

import (
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChartOfAccountModel is the persistence model for the ChartOfAccount entity.
type ChartOfAccountModel struct {
	BaseModel
	Code     string                 `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name     string                 `gorm:"type:varchar(200);not null"`
	Type     accounting.AccountType `gorm:"type:varchar(20);not null;index"`
	IsActive bool                   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ChartOfAccountModel) TableName() string {
	return "chart_of_accounts"
}

// ToDomain converts the persistence model to a domain ChartOfAccount entity.
func (m *ChartOfAccountModel) ToDomain() *accounting.ChartOfAccount {
	return &accounting.ChartOfAccount{
		BaseEntity: m.BaseModel.ToDomain(),
		Code:       m.Code,
		Name:       m.Name,
		Type:       m.Type,
		IsActive:   m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain ChartOfAccount entity.
func (m *ChartOfAccountModel) FromDomain(a *accounting.ChartOfAccount) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Code = a.Code
	m.Name = a.Name
	m.Type = a.Type
	m.IsActive = a.IsActive
}

// ChartOfAccountModelFromDomain creates a new persistence model from a domain ChartOfAccount.
func ChartOfAccountModelFromDomain(a *accounting.ChartOfAccount) *ChartOfAccountModel {
	m := &ChartOfAccountModel{}
	m.FromDomain(a)
	return m
}

// AccountingPeriodModel is the persistence model for the AccountingPeriod
// aggregate root. The domain DateRange is flattened into start/end columns.
type AccountingPeriodModel struct {
	AggregateModel
	Name      string                  `gorm:"type:varchar(100);not null;uniqueIndex"`
	StartDate time.Time               `gorm:"not null;index"`
	EndDate   time.Time               `gorm:"not null;index"`
	Status    accounting.PeriodStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	LockedBy  *uuid.UUID              `gorm:"type:uuid"`
	LockedAt  *time.Time
}

// TableName returns the table name for GORM
func (AccountingPeriodModel) TableName() string {
	return "accounting_periods"
}

// ToDomain converts the persistence model to a domain AccountingPeriod aggregate.
func (m *AccountingPeriodModel) ToDomain() (*accounting.AccountingPeriod, error) {
	dateRange, err := valueobject.NewDateRange(m.StartDate, m.EndDate)
	if err != nil {
		return nil, err
	}
	return accounting.ReconstructAccountingPeriod(
		m.ToDomainAggregateRoot(),
		m.Name,
		dateRange,
		m.Status,
		m.LockedBy,
		m.LockedAt,
	)
}

// FromDomain populates the persistence model from a domain AccountingPeriod aggregate.
func (m *AccountingPeriodModel) FromDomain(p *accounting.AccountingPeriod) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.StartDate = p.Range.Start()
	m.EndDate = p.Range.End()
	m.Status = p.Status
	m.LockedBy = p.LockedBy
	m.LockedAt = p.LockedAt
}

// AccountingPeriodModelFromDomain creates a new persistence model from a domain AccountingPeriod.
func AccountingPeriodModelFromDomain(p *accounting.AccountingPeriod) *AccountingPeriodModel {
	m := &AccountingPeriodModel{}
	m.FromDomain(p)
	return m
}

// JournalEntryModel is the persistence model for the JournalEntry aggregate
// root. Lines live in their own table and are ordered by LineNo.
type JournalEntryModel struct {
	AggregateModel
	ReferenceNumber string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	Date            time.Time              `gorm:"not null;index"`
	Description     string                 `gorm:"type:text"`
	PeriodID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	Currency        string                 `gorm:"type:varchar(3);not null"`
	Status          accounting.EntryStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	PostedAt        *time.Time
	Lines           []JournalLineModel `gorm:"foreignKey:EntryID;references:ID"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

// JournalLineModel is the persistence model for a single journal line.
type JournalLineModel struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key"`
	EntryID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	LineNo      int                    `gorm:"not null"`
	AccountID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	Side        accounting.DebitCredit `gorm:"type:varchar(10);not null"`
	Amount      decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Description string                 `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (JournalLineModel) TableName() string {
	return "journal_lines"
}

// ToDomain converts the persistence model to a domain JournalEntry aggregate.
// Line amounts are rehydrated in the entry currency.
func (m *JournalEntryModel) ToDomain() (*accounting.JournalEntry, error) {
	currency := valueobject.Currency(m.Currency)
	lines := make([]accounting.JournalLine, len(m.Lines))
	for i, lm := range m.Lines {
		amount, err := valueobject.NewMoney(lm.Amount, currency)
		if err != nil {
			return nil, err
		}
		line, err := accounting.NewJournalLine(lm.AccountID, lm.Side, amount, lm.Description)
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}
	return accounting.ReconstructJournalEntry(
		m.ToDomainAggregateRoot(),
		m.ReferenceNumber,
		m.Date,
		m.Description,
		m.PeriodID,
		currency,
		m.Status,
		lines,
		m.PostedAt,
	)
}

// FromDomain populates the persistence model from a domain JournalEntry aggregate.
func (m *JournalEntryModel) FromDomain(e *accounting.JournalEntry) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.ReferenceNumber = e.ReferenceNumber
	m.Date = e.Date
	m.Description = e.Description
	m.PeriodID = e.PeriodID
	m.Currency = string(e.Currency)
	m.Status = e.Status
	m.PostedAt = e.PostedAt
	m.Lines = make([]JournalLineModel, len(e.Lines))
	for i, line := range e.Lines {
		m.Lines[i] = JournalLineModel{
			ID:          uuid.New(),
			EntryID:     e.ID,
			LineNo:      i,
			AccountID:   line.AccountID,
			Side:        line.Side,
			Amount:      line.Amount.Amount(),
			Description: line.Description,
		}
	}
}

// JournalEntryModelFromDomain creates a new persistence model from a domain JournalEntry.
func JournalEntryModelFromDomain(e *accounting.JournalEntry) *JournalEntryModel {
	m := &JournalEntryModel{}
	m.FromDomain(e)
	return m
}

// PostingRuleModel is the persistence model for the PostingRule aggregate
// root. Only one active rule per event type is allowed; the partial unique
// index enforcing that is created in Migrate.
type PostingRuleModel struct {
	AggregateModel
	EventType   string                 `gorm:"type:varchar(100);not null;index"`
	Description string                 `gorm:"type:varchar(500)"`
	Module      string                 `gorm:"type:varchar(50)"`
	IsActive    bool                   `gorm:"not null;default:true;index"`
	Lines       []PostingRuleLineModel `gorm:"foreignKey:RuleID;references:ID"`
}

// TableName returns the table name for GORM
func (PostingRuleModel) TableName() string {
	return "posting_rules"
}

// PostingRuleLineModel is the persistence model for a posting rule line.
type PostingRuleLineModel struct {
	ID                  uuid.UUID              `gorm:"type:uuid;primary_key"`
	RuleID              uuid.UUID              `gorm:"type:uuid;not null;index"`
	LineNo              int                    `gorm:"not null"`
	AccountID           uuid.UUID              `gorm:"type:uuid;not null"`
	Side                accounting.DebitCredit `gorm:"type:varchar(10);not null"`
	AmountKey           string                 `gorm:"type:varchar(100);not null"`
	DescriptionTemplate string                 `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PostingRuleLineModel) TableName() string {
	return "posting_rule_lines"
}

// ToDomain converts the persistence model to a domain PostingRule aggregate.
func (m *PostingRuleModel) ToDomain() (*accounting.PostingRule, error) {
	lines := make([]accounting.PostingRuleLine, len(m.Lines))
	for i, lm := range m.Lines {
		line, err := accounting.NewPostingRuleLine(lm.AccountID, lm.Side, lm.AmountKey, lm.DescriptionTemplate)
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}
	return accounting.ReconstructPostingRule(
		m.ToDomainAggregateRoot(),
		m.EventType,
		m.Description,
		m.Module,
		m.IsActive,
		lines,
	)
}

// FromDomain populates the persistence model from a domain PostingRule aggregate.
func (m *PostingRuleModel) FromDomain(r *accounting.PostingRule) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.EventType = r.EventType
	m.Description = r.Description
	m.Module = r.Module
	m.IsActive = r.IsActive
	m.Lines = make([]PostingRuleLineModel, len(r.Lines))
	for i, line := range r.Lines {
		m.Lines[i] = PostingRuleLineModel{
			ID:                  uuid.New(),
			RuleID:              r.ID,
			LineNo:              i,
			AccountID:           line.AccountID,
			Side:                line.Side,
			AmountKey:           line.AmountKey,
			DescriptionTemplate: line.DescriptionTemplate,
		}
	}
}

// PostingRuleModelFromDomain creates a new persistence model from a domain PostingRule.
func PostingRuleModelFromDomain(r *accounting.PostingRule) *PostingRuleModel {
	m := &PostingRuleModel{}
	m.FromDomain(r)
	return m
}
