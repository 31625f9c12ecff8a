package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/fintera-ledger/internal/middleware"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/services"
)

type PeriodHandler struct {
	periodService *services.PeriodService
}

func NewPeriodHandler(periodService *services.PeriodService) *PeriodHandler {
	return &PeriodHandler{periodService: periodService}
}

type CreatePeriodRequest struct {
	PeriodName   string `json:"period_name"`
	FiscalYear   int    `json:"fiscal_year"`
	PeriodNumber int    `json:"period_number"`
	StartDate    string `json:"start_date" example:"2026-05-01"`
	EndDate      string `json:"end_date" example:"2026-05-31"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

// @Summary List Fiscal Periods
// @Tags Fiscal Periods
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "open, closed or locked"
// @Param fiscal_year query int false "Fiscal year"
// @Success 200 {object} map[string]interface{}
// @Router /accounting/fiscal-periods [get]
func (h *PeriodHandler) Index(c *gin.Context) {
	query := listQuery(c, "status", "fiscal_year")
	periods, total, err := h.periodService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	currentID, err := h.periodService.CurrentID(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.FiscalPeriodResponse, 0, len(periods))
	for i := range periods {
		responses = append(responses, periods[i].ToResponse(currentID))
	}

	c.JSON(http.StatusOK, gin.H{
		"fiscal_periods": responses,
		"pagination":     pagination(query, total),
	})
}

// @Summary Open Fiscal Period
// @Tags Fiscal Periods
// @Accept json
// @Produce json
// @Param fiscal_period body CreatePeriodRequest true "Period"
// @Success 201 {object} models.FiscalPeriodResponse
// @Failure 400 {object} map[string]string
// @Router /accounting/fiscal-periods [post]
func (h *PeriodHandler) Create(c *gin.Context) {
	var req CreatePeriodRequest
	if err := BindNestedOrFlat(c, "fiscal_period", &req); err != nil {
		badRequest(c, err.Error())
		return
	}
	start, err := models.ParseDate(req.StartDate)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	end, err := models.ParseDate(req.EndDate)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	period, err := h.periodService.Create(c.Request.Context(), services.CreatePeriodInput{
		Name:         req.PeriodName,
		FiscalYear:   req.FiscalYear,
		PeriodNumber: req.PeriodNumber,
		StartDate:    start,
		EndDate:      end,
	}, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, http.StatusCreated, period)
}

// @Summary Current Fiscal Period
// @Tags Fiscal Periods
// @Produce json
// @Success 200 {object} models.FiscalPeriodResponse
// @Failure 404 {object} map[string]string
// @Router /accounting/fiscal-periods/current [get]
func (h *PeriodHandler) Current(c *gin.Context) {
	period, err := h.periodService.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fiscal_period": period.ToResponse(period.ID)})
}

// @Summary Get Fiscal Period
// @Tags Fiscal Periods
// @Produce json
// @Param period_id path int true "Fiscal period ID"
// @Success 200 {object} models.FiscalPeriodResponse
// @Router /accounting/fiscal-periods/{period_id} [get]
func (h *PeriodHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "period_id")
	if !ok {
		return
	}
	period, err := h.periodService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, period)
}

// @Summary Close Fiscal Period
// @Description Fails while the period still has drafts
// @Tags Fiscal Periods
// @Produce json
// @Param period_id path int true "Fiscal period ID"
// @Success 200 {object} models.FiscalPeriodResponse
// @Failure 409 {object} map[string]string
// @Router /accounting/fiscal-periods/{period_id}/close [post]
func (h *PeriodHandler) Close(c *gin.Context) {
	id, ok := parseID(c, "period_id")
	if !ok {
		return
	}
	period, err := h.periodService.Close(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, period)
}

// @Summary Reopen Fiscal Period
// @Tags Fiscal Periods
// @Accept json
// @Produce json
// @Param period_id path int true "Fiscal period ID"
// @Param body body ReasonRequest false "Reason"
// @Success 200 {object} models.FiscalPeriodResponse
// @Router /accounting/fiscal-periods/{period_id}/reopen [post]
func (h *PeriodHandler) Reopen(c *gin.Context) {
	h.withReason(c, h.periodService.Reopen)
}

// @Summary Lock Fiscal Period
// @Tags Fiscal Periods
// @Produce json
// @Param period_id path int true "Fiscal period ID"
// @Success 200 {object} models.FiscalPeriodResponse
// @Router /accounting/fiscal-periods/{period_id}/lock [post]
func (h *PeriodHandler) Lock(c *gin.Context) {
	id, ok := parseID(c, "period_id")
	if !ok {
		return
	}
	period, err := h.periodService.Lock(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, period)
}

// @Summary Override Reopen
// @Description Reopens a locked period. Requires a reason and is audited.
// @Tags Fiscal Periods
// @Accept json
// @Produce json
// @Param period_id path int true "Fiscal period ID"
// @Param body body ReasonRequest true "Reason"
// @Success 200 {object} models.FiscalPeriodResponse
// @Router /accounting/fiscal-periods/{period_id}/override-reopen [post]
func (h *PeriodHandler) OverrideReopen(c *gin.Context) {
	h.withReason(c, h.periodService.OverrideReopen)
}

// @Summary Set Current Fiscal Period
// @Tags Fiscal Periods
// @Produce json
// @Param period_id path int true "Fiscal period ID"
// @Success 200 {object} models.FiscalPeriodResponse
// @Router /accounting/fiscal-periods/{period_id}/set-current [post]
func (h *PeriodHandler) SetCurrent(c *gin.Context) {
	id, ok := parseID(c, "period_id")
	if !ok {
		return
	}
	period, err := h.periodService.SetCurrent(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fiscal_period": period.ToResponse(period.ID)})
}

func (h *PeriodHandler) withReason(c *gin.Context, fn func(ctx context.Context, id uint, reason string, actor services.Actor) (*models.FiscalPeriod, error)) {
	id, ok := parseID(c, "period_id")
	if !ok {
		return
	}
	var req ReasonRequest
	if c.Request.ContentLength != 0 {
		if err := BindNestedOrFlat(c, "fiscal_period", &req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	period, err := fn(c.Request.Context(), id, req.Reason, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, period)
}

func (h *PeriodHandler) render(c *gin.Context, status int, period *models.FiscalPeriod) {
	currentID, err := h.periodService.CurrentID(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{"fiscal_period": period.ToResponse(currentID)})
}
