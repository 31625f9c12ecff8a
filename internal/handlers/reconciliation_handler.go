package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/middleware"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/services"
)

type ReconciliationHandler struct {
	reconciliationService *services.ReconciliationService
}

func NewReconciliationHandler(reconciliationService *services.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: reconciliationService}
}

type StartReconciliationRequest struct {
	AccountID        uint            `json:"account_id"`
	StatementDate    string          `json:"statement_date" example:"2026-05-31"`
	StatementBalance decimal.Decimal `json:"statement_balance" swaggertype:"string" example:"500.00"`
	Notes            string          `json:"notes"`
}

// ReconciliationItemRequest clears either a ledger entry (entry_id) or a free
// signed amount with a description
type ReconciliationItemRequest struct {
	EntryID     *uint            `json:"entry_id"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"string" example:"20.00"`
	Description string           `json:"description"`
}

// @Summary List Reconciliations
// @Tags Reconciliations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param account_id query int false "Account ID"
// @Param status query string false "pending, in_progress, completed or discrepancy"
// @Success 200 {object} map[string]interface{}
// @Router /accounting/reconciliations [get]
func (h *ReconciliationHandler) Index(c *gin.Context) {
	query := listQuery(c, "account_id", "status")
	recs, total, err := h.reconciliationService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.ReconciliationResponse, 0, len(recs))
	for i := range recs {
		responses = append(responses, recs[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"reconciliations": responses,
		"pagination":      pagination(query, total),
	})
}

// @Summary Start Reconciliation
// @Description Book balance is taken from posted entries up to the statement date
// @Tags Reconciliations
// @Accept json
// @Produce json
// @Param reconciliation body StartReconciliationRequest true "Statement"
// @Success 201 {object} models.ReconciliationResponse
// @Router /accounting/reconciliations [post]
func (h *ReconciliationHandler) Create(c *gin.Context) {
	var req StartReconciliationRequest
	if err := BindNestedOrFlat(c, "reconciliation", &req); err != nil {
		badRequest(c, err.Error())
		return
	}
	date, err := models.ParseDate(req.StatementDate)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	rec, err := h.reconciliationService.Start(c.Request.Context(), services.StartReconciliationInput{
		AccountID:        req.AccountID,
		StatementDate:    date,
		StatementBalance: req.StatementBalance,
		Notes:            req.Notes,
	}, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reconciliation": rec.ToResponse()})
}

// @Summary Get Reconciliation
// @Tags Reconciliations
// @Produce json
// @Param reconciliation_id path int true "Reconciliation ID"
// @Success 200 {object} models.ReconciliationResponse
// @Router /accounting/reconciliations/{reconciliation_id} [get]
func (h *ReconciliationHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "reconciliation_id")
	if !ok {
		return
	}
	rec, err := h.reconciliationService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reconciliation": rec.ToResponse()})
}

// @Summary Match Item
// @Tags Reconciliations
// @Accept json
// @Produce json
// @Param reconciliation_id path int true "Reconciliation ID"
// @Param item body ReconciliationItemRequest true "Item"
// @Success 201 {object} models.ReconciliationResponse
// @Router /accounting/reconciliations/{reconciliation_id}/items [post]
func (h *ReconciliationHandler) AddItem(c *gin.Context) {
	id, ok := parseID(c, "reconciliation_id")
	if !ok {
		return
	}
	var req ReconciliationItemRequest
	if err := BindNestedOrFlat(c, "item", &req); err != nil {
		badRequest(c, err.Error())
		return
	}

	rec, err := h.reconciliationService.Match(c.Request.Context(), id, services.MatchInput{
		EntryID:     req.EntryID,
		Amount:      req.Amount,
		Description: req.Description,
	}, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reconciliation": rec.ToResponse()})
}

// @Summary Unmatch Item
// @Tags Reconciliations
// @Produce json
// @Param reconciliation_id path int true "Reconciliation ID"
// @Param item_id path int true "Item ID"
// @Success 200 {object} models.ReconciliationResponse
// @Router /accounting/reconciliations/{reconciliation_id}/items/{item_id} [delete]
func (h *ReconciliationHandler) RemoveItem(c *gin.Context) {
	id, ok := parseID(c, "reconciliation_id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}

	rec, err := h.reconciliationService.Unmatch(c.Request.Context(), id, itemID, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reconciliation": rec.ToResponse()})
}

// @Summary Complete Reconciliation
// @Description Returns 422 with the outstanding amount when the statement does not match
// @Tags Reconciliations
// @Produce json
// @Param reconciliation_id path int true "Reconciliation ID"
// @Success 200 {object} models.ReconciliationResponse
// @Failure 422 {object} map[string]string
// @Router /accounting/reconciliations/{reconciliation_id}/complete [post]
func (h *ReconciliationHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "reconciliation_id")
	if !ok {
		return
	}
	rec, err := h.reconciliationService.Complete(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reconciliation": rec.ToResponse()})
}
