package handler

import (
	"time"

	accountingapp "github.com/erp/ledger/internal/application/accounting"
	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/accounting/acl"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// JournalEntryHandler handles journal entry API endpoints
type JournalEntryHandler struct {
	BaseHandler
	journaling *accountingapp.JournalingService
	journals   accounting.JournalEntryRepository
}

// NewJournalEntryHandler creates a new JournalEntryHandler
func NewJournalEntryHandler(journaling *accountingapp.JournalingService, journals accounting.JournalEntryRepository) *JournalEntryHandler {
	return &JournalEntryHandler{
		journaling: journaling,
		journals:   journals,
	}
}

// PostJournalEntryRequest represents a request to post a journal entry
type PostJournalEntryRequest struct {
	Date        string                    `json:"date" binding:"required"`
	Description string                    `json:"description"`
	Reference   string                    `json:"reference"`
	Currency    string                    `json:"currency"`
	Lines       []JournalEntryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// JournalEntryLineRequest represents one line of a posting request
type JournalEntryLineRequest struct {
	AccountCode string `json:"account_code" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=debit credit"`
	Description string `json:"description"`
}

// JournalEntryResponse represents a journal entry in API responses
type JournalEntryResponse struct {
	ID              string                     `json:"id"`
	ReferenceNumber string                     `json:"reference_number"`
	Date            string                     `json:"date"`
	Description     string                     `json:"description"`
	PeriodID        string                     `json:"period_id"`
	Currency        string                     `json:"currency"`
	Status          string                     `json:"status"`
	TotalDebit      string                     `json:"total_debit"`
	TotalCredit     string                     `json:"total_credit"`
	Lines           []JournalEntryLineResponse `json:"lines"`
	PostedAt        *time.Time                 `json:"posted_at,omitempty"`
	CreatedAt       time.Time                  `json:"created_at"`
}

// JournalEntryLineResponse represents one journal line in API responses
type JournalEntryLineResponse struct {
	AccountID   string `json:"account_id"`
	Side        string `json:"side"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

// RegisterRoutes registers journal entry routes on the given group
func (h *JournalEntryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.Post)
		entries.GET("", h.List)
		entries.GET("/:id", h.Get)
	}
}

// Post creates and posts a balanced journal entry from a posting payload.
// Re-submitting a payload with an existing reference returns the existing
// entry instead of posting again.
func (h *JournalEntryHandler) Post(c *gin.Context) {
	var req PostJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date format. Expected YYYY-MM-DD")
		return
	}

	lines := make([]acl.PayloadLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		amount, err := decimal.NewFromString(lineReq.Amount)
		if err != nil {
			h.BadRequest(c, "Invalid amount: "+lineReq.Amount)
			return
		}
		lines[i] = acl.PayloadLine{
			AccountCode: lineReq.AccountCode,
			Amount:      amount,
			Type:        lineReq.Type,
			Description: lineReq.Description,
		}
	}

	payload := acl.PostingPayload{
		Date:        date,
		Description: req.Description,
		Reference:   req.Reference,
		Currency:    valueobject.Currency(req.Currency),
		Lines:       lines,
	}

	entry, err := h.journaling.Process(c.Request.Context(), payload)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toJournalEntryResponse(entry))
}

// List lists journal entries with filtering
func (h *JournalEntryHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if periodID := c.Query("period_id"); periodID != "" {
		filter.Filters["period_id"] = periodID
	}

	entries, err := h.journals.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]JournalEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = toJournalEntryResponse(&entry)
	}
	h.SuccessWithMeta(c, responses, filter.Page, filter.PageSize)
}

// Get finds a journal entry by ID
func (h *JournalEntryHandler) Get(c *gin.Context) {
	id, err := bindIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid journal entry ID")
		return
	}

	entry, err := h.journals.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toJournalEntryResponse(entry))
}

func toJournalEntryResponse(e *accounting.JournalEntry) JournalEntryResponse {
	lines := make([]JournalEntryLineResponse, len(e.Lines))
	for i, line := range e.Lines {
		lines[i] = JournalEntryLineResponse{
			AccountID:   line.AccountID.String(),
			Side:        line.Side.String(),
			Amount:      line.Amount.Format(2),
			Description: line.Description,
		}
	}

	return JournalEntryResponse{
		ID:              e.ID.String(),
		ReferenceNumber: e.ReferenceNumber,
		Date:            e.Date.Format(time.DateOnly),
		Description:     e.Description,
		PeriodID:        e.PeriodID.String(),
		Currency:        string(e.Currency),
		Status:          e.Status.String(),
		TotalDebit:      e.TotalDebit().Format(2),
		TotalCredit:     e.TotalCredit().Format(2),
		Lines:           lines,
		PostedAt:        e.PostedAt,
		CreatedAt:       e.CreatedAt,
	}
}
