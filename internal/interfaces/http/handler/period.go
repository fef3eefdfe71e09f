package handler

import (
	"time"

	accountingapp "github.com/erp/ledger/internal/application/accounting"
	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PeriodHandler handles accounting period API endpoints
type PeriodHandler struct {
	BaseHandler
	periods *accountingapp.PeriodService
}

// NewPeriodHandler creates a new PeriodHandler
func NewPeriodHandler(periods *accountingapp.PeriodService) *PeriodHandler {
	return &PeriodHandler{periods: periods}
}

// CreatePeriodRequest represents a request to create a period
type CreatePeriodRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// ChangePeriodRangeRequest represents a request to reshape a period
type ChangePeriodRangeRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// PeriodResponse represents a period in API responses
type PeriodResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Status    string     `json:"status"`
	LockedBy  *string    `json:"locked_by,omitempty"`
	LockedAt  *time.Time `json:"locked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RegisterRoutes registers period routes on the given group
func (h *PeriodHandler) RegisterRoutes(rg *gin.RouterGroup) {
	periods := rg.Group("/periods")
	{
		periods.POST("", h.Create)
		periods.GET("", h.List)
		periods.GET("/:id", h.Get)
		periods.PUT("/:id/range", h.ChangeRange)
		periods.POST("/:id/close", h.Close)
		periods.POST("/:id/lock", h.Lock)
		periods.POST("/:id/unlock", h.Unlock)
	}
}

// Create creates a new open period
func (h *PeriodHandler) Create(c *gin.Context) {
	var req CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	start, end, ok := h.parseDates(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	period, err := h.periods.CreatePeriod(c.Request.Context(), req.Name, start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPeriodResponse(period))
}

// List lists periods with filtering
func (h *PeriodHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	periods, err := h.periods.ListPeriods(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PeriodResponse, len(periods))
	for i, period := range periods {
		responses[i] = toPeriodResponse(&period)
	}
	h.SuccessWithMeta(c, responses, filter.Page, filter.PageSize)
}

// Get finds a period by ID
func (h *PeriodHandler) Get(c *gin.Context) {
	id, err := bindIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid period ID")
		return
	}

	period, err := h.periods.GetPeriod(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPeriodResponse(period))
}

// ChangeRange reshapes a period's date range
func (h *PeriodHandler) ChangeRange(c *gin.Context) {
	id, err := bindIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid period ID")
		return
	}
	var req ChangePeriodRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	start, end, ok := h.parseDates(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	period, err := h.periods.ChangePeriodRange(c.Request.Context(), id, start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPeriodResponse(period))
}

// Close closes the period
func (h *PeriodHandler) Close(c *gin.Context) {
	h.transition(c, func(id uuid.UUID) (*accounting.AccountingPeriod, error) {
		return h.periods.ClosePeriod(c.Request.Context(), id)
	})
}

// Lock locks the period against posting. The acting user comes from the
// X-User-ID header.
func (h *PeriodHandler) Lock(c *gin.Context) {
	userID, err := uuid.Parse(c.GetHeader("X-User-ID"))
	if err != nil {
		h.BadRequest(c, "Valid X-User-ID header is required to lock a period")
		return
	}
	h.transition(c, func(id uuid.UUID) (*accounting.AccountingPeriod, error) {
		return h.periods.LockPeriod(c.Request.Context(), id, userID)
	})
}

// Unlock reopens the period
func (h *PeriodHandler) Unlock(c *gin.Context) {
	h.transition(c, func(id uuid.UUID) (*accounting.AccountingPeriod, error) {
		return h.periods.UnlockPeriod(c.Request.Context(), id)
	})
}

func (h *PeriodHandler) transition(c *gin.Context, fn func(uuid.UUID) (*accounting.AccountingPeriod, error)) {
	id, err := bindIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid period ID")
		return
	}

	period, err := fn(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPeriodResponse(period))
}

func (h *PeriodHandler) parseDates(c *gin.Context, startStr, endStr string) (time.Time, time.Time, bool) {
	start, err := time.Parse(time.DateOnly, startStr)
	if err != nil {
		h.BadRequest(c, "Invalid start_date format. Expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.DateOnly, endStr)
	if err != nil {
		h.BadRequest(c, "Invalid end_date format. Expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func toPeriodResponse(p *accounting.AccountingPeriod) PeriodResponse {
	var lockedBy *string
	if p.LockedBy != nil {
		s := p.LockedBy.String()
		lockedBy = &s
	}
	return PeriodResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		StartDate: p.Range.Start().Format(time.DateOnly),
		EndDate:   p.Range.End().Format(time.DateOnly),
		Status:    p.Status.String(),
		LockedBy:  lockedBy,
		LockedAt:  p.LockedAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
