package handler

import (
	"time"

	accountingapp "github.com/erp/ledger/internal/application/accounting"
	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles chart-of-accounts API endpoints
type AccountHandler struct {
	BaseHandler
	accounts *accountingapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts *accountingapp.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// CreateAccountRequest represents a request to create an account
type CreateAccountRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterRoutes registers account routes on the given group
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.Create)
		accounts.GET("", h.List)
		accounts.GET("/:id", h.Get)
		accounts.POST("/:id/activate", h.Activate)
		accounts.POST("/:id/deactivate", h.Deactivate)
	}
}

// Create creates a new account
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	account, err := h.accounts.CreateAccount(c.Request.Context(), req.Code, req.Name, accounting.AccountType(req.Type))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAccountResponse(account))
}

// List lists accounts with filtering
func (h *AccountHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	accounts, err := h.accounts.ListAccounts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		responses[i] = toAccountResponse(&account)
	}
	h.SuccessWithMeta(c, responses, filter.Page, filter.PageSize)
}

// Get finds an account by ID
func (h *AccountHandler) Get(c *gin.Context) {
	id, err := bindIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	account, err := h.accounts.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAccountResponse(account))
}

// Activate re-enables an account for posting
func (h *AccountHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate marks an account as no longer postable
func (h *AccountHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *AccountHandler) setActive(c *gin.Context, active bool) {
	id, err := bindIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var account *accounting.ChartOfAccount
	if active {
		account, err = h.accounts.ActivateAccount(c.Request.Context(), id)
	} else {
		account, err = h.accounts.DeactivateAccount(c.Request.Context(), id)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAccountResponse(account))
}

func toAccountResponse(a *accounting.ChartOfAccount) AccountResponse {
	return AccountResponse{
		ID:        a.ID.String(),
		Code:      a.Code,
		Name:      a.Name,
		Type:      a.Type.String(),
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
