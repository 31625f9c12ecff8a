package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/services"
)

type AnalyticsHandler struct {
	analyticsSvc *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsSvc *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// @Summary Get Accounting Analytics
// @Description Totals by type, profit figures, ratios and monthly trends. Ratios are null when undefined.
// @Tags Analytics
// @Produce json
// @Param start_date query string false "Start Date (YYYY-MM-DD)"
// @Param end_date query string false "End Date (YYYY-MM-DD)"
// @Success 200 {object} models.AccountingAnalytics
// @Router /accounting/analytics [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}
	overview, err := h.analyticsSvc.Overview(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// @Summary Balance Sheet
// @Tags Reports
// @Produce json
// @Param as_of query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} models.BalanceSheet
// @Router /accounting/reports/balance-sheet [get]
func (h *AnalyticsHandler) BalanceSheet(c *gin.Context) {
	asOf, err := parseDate(c.Query("as_of"), models.Today())
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	report, err := h.analyticsSvc.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Income Statement
// @Tags Reports
// @Produce json
// @Param start_date query string false "Start Date (YYYY-MM-DD), defaults to the first of the month"
// @Param end_date query string false "End Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} models.IncomeStatement
// @Router /accounting/reports/income-statement [get]
func (h *AnalyticsHandler) IncomeStatement(c *gin.Context) {
	today := models.Today()
	start, err := parseDate(c.Query("start_date"), today.AddDate(0, 0, 1-today.Day()))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	end, err := parseDate(c.Query("end_date"), today)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	report, err := h.analyticsSvc.IncomeStatement(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Trial Balance
// @Tags Reports
// @Produce json
// @Param as_of query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} models.TrialBalance
// @Router /accounting/reports/trial-balance [get]
func (h *AnalyticsHandler) TrialBalance(c *gin.Context) {
	asOf, err := parseDate(c.Query("as_of"), models.Today())
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	report, err := h.analyticsSvc.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) parseFilters(c *gin.Context) (services.AnalyticsFilters, bool) {
	var filters services.AnalyticsFilters
	var err error
	if filters.StartDate, err = parseOptionalDate(c.Query("start_date")); err != nil {
		badRequest(c, err.Error())
		return filters, false
	}
	if filters.EndDate, err = parseOptionalDate(c.Query("end_date")); err != nil {
		badRequest(c, err.Error())
		return filters, false
	}
	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		badRequest(c, "end_date must not be before start_date")
		return filters, false
	}
	return filters, true
}
