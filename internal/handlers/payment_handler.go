package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/middleware"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type CreatePaymentRequest struct {
	CustomerName        string          `json:"customer_name"`
	PaymentDate         string          `json:"payment_date" example:"2026-05-20"`
	Amount              decimal.Decimal `json:"amount" swaggertype:"string" example:"50.00"`
	PaymentMethod       string          `json:"payment_method" example:"bank_transfer"`
	Reference           string          `json:"reference"`
	InvoiceID           *uint           `json:"invoice_id"`
	CashAccountID       uint            `json:"cash_account_id"`
	ReceivableAccountID uint            `json:"receivable_account_id"`
}

type FailPaymentRequest struct {
	Reason string `json:"reason"`
}

// @Summary List Payments
// @Description Get a paginated list of payments
// @Tags Payments
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param payment_method query string false "cash, bank_transfer, check or card"
// @Param invoice_id query int false "Invoice ID"
// @Success 200 {object} map[string]interface{}
// @Router /accounting/payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := listQuery(c, "status", "payment_method", "invoice_id")

	payments, total, err := h.paymentService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"payments":   responses,
		"pagination": pagination(query, total),
	})
}

// @Summary Record Payment
// @Description Creates a pending payment, optionally applied to an invoice
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment body CreatePaymentRequest true "Payment"
// @Success 201 {object} models.PaymentResponse
// @Failure 400 {object} map[string]string
// @Router /accounting/payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		badRequest(c, err.Error())
		return
	}
	date, err := parseDate(req.PaymentDate, time.Time{})
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), services.CreatePaymentInput{
		CustomerName:        req.CustomerName,
		PaymentDate:         date,
		Amount:              req.Amount,
		PaymentMethod:       req.PaymentMethod,
		Reference:           req.Reference,
		InvoiceID:           req.InvoiceID,
		CashAccountID:       req.CashAccountID,
		ReceivableAccountID: req.ReceivableAccountID,
	}, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment.ToResponse()})
}

// @Summary Get Payment
// @Description Get a payment by ID
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} models.PaymentResponse
// @Failure 404 {object} map[string]string
// @Router /accounting/payments/{payment_id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "payment_id")
	if !ok {
		return
	}
	payment, err := h.paymentService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// @Summary Complete Payment
// @Description Posts the cash receipt to the ledger and updates the invoice balance
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} models.PaymentResponse
// @Router /accounting/payments/{payment_id}/complete [post]
func (h *PaymentHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "payment_id")
	if !ok {
		return
	}
	payment, err := h.paymentService.Complete(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// @Summary Fail Payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Param body body FailPaymentRequest false "Reason"
// @Success 200 {object} models.PaymentResponse
// @Router /accounting/payments/{payment_id}/fail [post]
func (h *PaymentHandler) Fail(c *gin.Context) {
	id, ok := parseID(c, "payment_id")
	if !ok {
		return
	}
	var req FailPaymentRequest
	if c.Request.ContentLength != 0 {
		if err := BindNestedOrFlat(c, "payment", &req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	payment, err := h.paymentService.Fail(c.Request.Context(), id, req.Reason, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// @Summary Reverse Payment
// @Description Reverses the ledger posting and restores the invoice balance
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} models.PaymentResponse
// @Router /accounting/payments/{payment_id}/reverse [post]
func (h *PaymentHandler) Reverse(c *gin.Context) {
	id, ok := parseID(c, "payment_id")
	if !ok {
		return
	}
	payment, err := h.paymentService.Reverse(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}
