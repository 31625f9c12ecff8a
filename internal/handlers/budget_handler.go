package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/middleware"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/services"
)

type BudgetHandler struct {
	budgetService *services.BudgetService
}

func NewBudgetHandler(budgetService *services.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

type CreateBudgetRequest struct {
	BudgetName     string          `json:"budget_name"`
	AccountID      uint            `json:"account_id"`
	FiscalPeriodID uint            `json:"fiscal_period_id"`
	BudgetedAmount decimal.Decimal `json:"budgeted_amount" swaggertype:"string" example:"150.00"`
}

// @Summary List Budgets
// @Description Returns stored snapshots, computed_at tells their age
// @Tags Budgets
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "draft, active or closed"
// @Param account_id query int false "Account ID"
// @Param fiscal_period_id query int false "Fiscal period ID"
// @Success 200 {object} map[string]interface{}
// @Router /accounting/budgets [get]
func (h *BudgetHandler) Index(c *gin.Context) {
	query := listQuery(c, "status", "account_id", "fiscal_period_id")
	budgets, total, err := h.budgetService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.BudgetResponse, 0, len(budgets))
	for i := range budgets {
		responses = append(responses, budgets[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"budgets":    responses,
		"pagination": pagination(query, total),
	})
}

// @Summary Create Budget
// @Tags Budgets
// @Accept json
// @Produce json
// @Param budget body CreateBudgetRequest true "Budget"
// @Success 201 {object} models.BudgetResponse
// @Failure 409 {object} map[string]string
// @Router /accounting/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	var req CreateBudgetRequest
	if err := BindNestedOrFlat(c, "budget", &req); err != nil {
		badRequest(c, err.Error())
		return
	}

	budget, err := h.budgetService.Create(c.Request.Context(), services.CreateBudgetInput{
		Name:           req.BudgetName,
		AccountID:      req.AccountID,
		FiscalPeriodID: req.FiscalPeriodID,
		BudgetedAmount: req.BudgetedAmount,
	}, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"budget": budget.ToResponse()})
}

// @Summary Get Budget
// @Description Computes the actual amount live and refreshes the snapshot
// @Tags Budgets
// @Produce json
// @Param budget_id path int true "Budget ID"
// @Success 200 {object} models.BudgetResponse
// @Router /accounting/budgets/{budget_id} [get]
func (h *BudgetHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "budget_id")
	if !ok {
		return
	}
	budget, err := h.budgetService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget.ToResponse()})
}

// @Summary Refresh Budget
// @Tags Budgets
// @Produce json
// @Param budget_id path int true "Budget ID"
// @Success 200 {object} models.BudgetResponse
// @Router /accounting/budgets/{budget_id}/refresh [post]
func (h *BudgetHandler) Refresh(c *gin.Context) {
	id, ok := parseID(c, "budget_id")
	if !ok {
		return
	}
	budget, err := h.budgetService.Refresh(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget.ToResponse()})
}

// @Summary Activate Budget
// @Tags Budgets
// @Produce json
// @Param budget_id path int true "Budget ID"
// @Success 200 {object} models.BudgetResponse
// @Router /accounting/budgets/{budget_id}/activate [post]
func (h *BudgetHandler) Activate(c *gin.Context) {
	h.transition(c, h.budgetService.Activate)
}

// @Summary Close Budget
// @Tags Budgets
// @Produce json
// @Param budget_id path int true "Budget ID"
// @Success 200 {object} models.BudgetResponse
// @Router /accounting/budgets/{budget_id}/close [post]
func (h *BudgetHandler) Close(c *gin.Context) {
	h.transition(c, h.budgetService.Close)
}

func (h *BudgetHandler) transition(c *gin.Context, fn func(ctx context.Context, id uint, actor services.Actor) (*models.Budget, error)) {
	id, ok := parseID(c, "budget_id")
	if !ok {
		return
	}
	budget, err := fn(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget.ToResponse()})
}
