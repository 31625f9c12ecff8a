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

type TransactionHandler struct {
	ledgerService *services.LedgerService
}

func NewTransactionHandler(ledgerService *services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

type EntryRequest struct {
	AccountID    uint            `json:"account_id"`
	DebitAmount  decimal.Decimal `json:"debit_amount" swaggertype:"string" example:"100.00"`
	CreditAmount decimal.Decimal `json:"credit_amount" swaggertype:"string" example:"0.00"`
	Description  string          `json:"description"`
}

type CreateTransactionRequest struct {
	Description     string         `json:"description"`
	TransactionDate string         `json:"transaction_date" example:"2026-05-15"`
	Entries         []EntryRequest `json:"entries"`
}

// @Summary List Transactions
// @Description Get a paginated list of journal transactions
// @Tags Transactions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "draft, posted, reversed or void"
// @Param start_date query string false "From date (YYYY-MM-DD)"
// @Param end_date query string false "To date (YYYY-MM-DD)"
// @Param account_id query int false "Only transactions touching this account"
// @Param search query string false "Search number or description"
// @Success 200 {object} map[string]interface{}
// @Router /accounting/transactions [get]
func (h *TransactionHandler) Index(c *gin.Context) {
	query := listQuery(c, "status", "start_date", "end_date", "account_id", "fiscal_period_id")
	for _, key := range []string{"start_date", "end_date"} {
		if _, err := parseOptionalDate(query.Filters[key]); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	txns, total, err := h.ledgerService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.TransactionResponse, 0, len(txns))
	for i := range txns {
		responses = append(responses, txns[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": responses,
		"pagination":   pagination(query, total),
	})
}

// @Summary Get Transaction
// @Tags Transactions
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} models.TransactionResponse
// @Failure 404 {object} map[string]string
// @Router /accounting/transactions/{transaction_id} [get]
func (h *TransactionHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "transaction_id")
	if !ok {
		return
	}
	txn, err := h.ledgerService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn.ToResponse()})
}

// @Summary Create Draft Transaction
// @Description Debits must equal credits. Amounts accept strings or numbers.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction body CreateTransactionRequest true "Transaction"
// @Success 201 {object} models.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /accounting/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := BindNestedOrFlat(c, "transaction", &req); err != nil {
		badRequest(c, err.Error())
		return
	}
	date, err := parseDate(req.TransactionDate, models.Today())
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	entries := make([]services.EntryInput, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, services.EntryInput{
			AccountID:    e.AccountID,
			DebitAmount:  e.DebitAmount,
			CreditAmount: e.CreditAmount,
			Description:  e.Description,
		})
	}

	txn, err := h.ledgerService.CreateDraft(c.Request.Context(), services.CreateTransactionInput{
		Description: req.Description,
		Date:        date,
		Entries:     entries,
	}, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": txn.ToResponse()})
}

// @Summary Post Transaction
// @Description Applies a draft to account balances
// @Tags Transactions
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} models.TransactionResponse
// @Failure 409 {object} map[string]string
// @Router /accounting/transactions/{transaction_id}/post [post]
func (h *TransactionHandler) Post(c *gin.Context) {
	h.act(c, h.ledgerService.Post)
}

// @Summary Reverse Transaction
// @Description Posts a mirror transaction and marks the original reversed
// @Tags Transactions
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} models.TransactionResponse
// @Failure 409 {object} map[string]string
// @Router /accounting/transactions/{transaction_id}/reverse [post]
func (h *TransactionHandler) Reverse(c *gin.Context) {
	h.act(c, h.ledgerService.Reverse)
}

// @Summary Void Transaction
// @Description Drafts only, no balance effect
// @Tags Transactions
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} models.TransactionResponse
// @Failure 409 {object} map[string]string
// @Router /accounting/transactions/{transaction_id}/void [post]
func (h *TransactionHandler) Void(c *gin.Context) {
	h.act(c, h.ledgerService.Void)
}

func (h *TransactionHandler) act(c *gin.Context, fn func(ctx context.Context, id uint, actor services.Actor) (*models.Transaction, error)) {
	id, ok := parseID(c, "transaction_id")
	if !ok {
		return
	}
	txn, err := fn(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn.ToResponse()})
}
