package handler

import (
	"context"
	"time"

	accountingapp "github.com/erp/ledger/internal/application/accounting"
	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PostingRuleHandler handles posting rule API endpoints
type PostingRuleHandler struct {
	BaseHandler
	rules *accountingapp.PostingRuleService
}

// NewPostingRuleHandler creates a new PostingRuleHandler
func NewPostingRuleHandler(rules *accountingapp.PostingRuleService) *PostingRuleHandler {
	return &PostingRuleHandler{rules: rules}
}

// CreatePostingRuleRequest represents a request to create a posting rule
type CreatePostingRuleRequest struct {
	EventType   string                   `json:"event_type" binding:"required"`
	Description string                   `json:"description"`
	Module      string                   `json:"module"`
	Lines       []PostingRuleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PostingRuleLineRequest represents one rule line in a request
type PostingRuleLineRequest struct {
	AccountCode         string `json:"account_code" binding:"required"`
	Side                string `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	AmountKey           string `json:"amount_key" binding:"required"`
	DescriptionTemplate string `json:"description_template"`
}

// PostingRuleResponse represents a posting rule in API responses
type PostingRuleResponse struct {
	ID          string                    `json:"id"`
	EventType   string                    `json:"event_type"`
	Description string                    `json:"description"`
	Module      string                    `json:"module"`
	IsActive    bool                      `json:"is_active"`
	Lines       []PostingRuleLineResponse `json:"lines"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// PostingRuleLineResponse represents one rule line in API responses
type PostingRuleLineResponse struct {
	AccountID           string `json:"account_id"`
	Side                string `json:"side"`
	AmountKey           string `json:"amount_key"`
	DescriptionTemplate string `json:"description_template,omitempty"`
}

// RegisterRoutes registers posting rule routes on the given group
func (h *PostingRuleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rules := rg.Group("/posting-rules")
	{
		rules.POST("", h.Create)
		rules.GET("", h.List)
		rules.GET("/:id", h.Get)
		rules.POST("/:id/lines", h.AddLine)
		rules.POST("/:id/activate", h.Activate)
		rules.POST("/:id/deactivate", h.Deactivate)
	}
}

// Create creates an active posting rule with its lines
func (h *PostingRuleHandler) Create(c *gin.Context) {
	var req CreatePostingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	lines := make([]accountingapp.RuleLineInput, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = toRuleLineInput(lineReq)
	}

	rule, err := h.rules.CreateRule(c.Request.Context(), req.EventType, req.Description, req.Module, lines)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPostingRuleResponse(rule))
}

// List lists posting rules with filtering
func (h *PostingRuleHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	rules, err := h.rules.ListRules(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PostingRuleResponse, len(rules))
	for i, rule := range rules {
		responses[i] = toPostingRuleResponse(&rule)
	}
	h.SuccessWithMeta(c, responses, filter.Page, filter.PageSize)
}

// Get finds a posting rule by ID
func (h *PostingRuleHandler) Get(c *gin.Context) {
	id, err := bindIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	rule, err := h.rules.GetRule(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPostingRuleResponse(rule))
}

// AddLine appends a line to an existing rule
func (h *PostingRuleHandler) AddLine(c *gin.Context) {
	id, err := bindIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}
	var req PostingRuleLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	rule, err := h.rules.AddRuleLine(c.Request.Context(), id, toRuleLineInput(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPostingRuleResponse(rule))
}

// Activate re-enables a rule for event matching
func (h *PostingRuleHandler) Activate(c *gin.Context) {
	h.transition(c, h.rules.ActivateRule)
}

// Deactivate disables a rule; its event type becomes untracked
func (h *PostingRuleHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.rules.DeactivateRule)
}

func (h *PostingRuleHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*accounting.PostingRule, error)) {
	id, err := bindIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	rule, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPostingRuleResponse(rule))
}

func toRuleLineInput(req PostingRuleLineRequest) accountingapp.RuleLineInput {
	return accountingapp.RuleLineInput{
		AccountCode:         req.AccountCode,
		Side:                accounting.DebitCredit(req.Side),
		AmountKey:           req.AmountKey,
		DescriptionTemplate: req.DescriptionTemplate,
	}
}

func toPostingRuleResponse(r *accounting.PostingRule) PostingRuleResponse {
	lines := make([]PostingRuleLineResponse, len(r.Lines))
	for i, line := range r.Lines {
		lines[i] = PostingRuleLineResponse{
			AccountID:           line.AccountID.String(),
			Side:                line.Side.String(),
			AmountKey:           line.AmountKey,
			DescriptionTemplate: line.DescriptionTemplate,
		}
	}

	return PostingRuleResponse{
		ID:          r.ID.String(),
		EventType:   r.EventType,
		Description: r.Description,
		Module:      r.Module,
		IsActive:    r.IsActive,
		Lines:       lines,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
