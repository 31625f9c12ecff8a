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

type InvoiceHandler struct {
	invoiceService *services.InvoiceService
	paymentService *services.PaymentService
}

func NewInvoiceHandler(invoiceService *services.InvoiceService, paymentService *services.PaymentService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, paymentService: paymentService}
}

type InvoiceLineRequest struct {
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity" swaggertype:"string" example:"2"`
	UnitPrice        decimal.Decimal `json:"unit_price" swaggertype:"string" example:"50.00"`
	TaxCodeID        *uint           `json:"tax_code_id"`
	RevenueAccountID uint            `json:"revenue_account_id"`
}

type CreateInvoiceRequest struct {
	CustomerName        string               `json:"customer_name"`
	InvoiceDate         string               `json:"invoice_date" example:"2026-05-04"`
	DueDate             string               `json:"due_date" example:"2026-06-03"`
	ReceivableAccountID uint                 `json:"receivable_account_id"`
	Notes               string               `json:"notes"`
	LineItems           []InvoiceLineRequest `json:"line_items"`
}

// @Summary List Invoices
// @Tags Invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "draft, sent, partially_paid, paid or void"
// @Param search query string false "Search number or customer"
// @Param overdue query bool false "Only overdue invoices"
// @Success 200 {object} map[string]interface{}
// @Router /accounting/invoices [get]
func (h *InvoiceHandler) Index(c *gin.Context) {
	query := listQuery(c, "status", "customer_name", "overdue")
	invoices, total, err := h.invoiceService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, invoices[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices":   responses,
		"pagination": pagination(query, total),
	})
}

// @Summary Create Draft Invoice
// @Description Totals are computed from the lines and the tax codes effective on the invoice date
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoice body CreateInvoiceRequest true "Invoice"
// @Success 201 {object} models.InvoiceResponse
// @Router /accounting/invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := BindNestedOrFlat(c, "invoice", &req); err != nil {
		badRequest(c, err.Error())
		return
	}
	invoiceDate, err := parseDate(req.InvoiceDate, models.Today())
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	dueDate, err := parseDate(req.DueDate, time.Time{})
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	lines := make([]services.InvoiceLineInput, 0, len(req.LineItems))
	for _, l := range req.LineItems {
		lines = append(lines, services.InvoiceLineInput{
			Description:      l.Description,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice,
			TaxCodeID:        l.TaxCodeID,
			RevenueAccountID: l.RevenueAccountID,
		})
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), services.CreateInvoiceInput{
		CustomerName:        req.CustomerName,
		InvoiceDate:         invoiceDate,
		DueDate:             dueDate,
		ReceivableAccountID: req.ReceivableAccountID,
		Notes:               req.Notes,
		Lines:               lines,
	}, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invoice": invoice.ToResponse()})
}

// @Summary Get Invoice
// @Description Includes the payments applied to the invoice
// @Tags Invoices
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Router /accounting/invoices/{invoice_id} [get]
func (h *InvoiceHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "invoice_id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	payments, err := h.paymentService.ListByInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	paymentResponses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		paymentResponses = append(paymentResponses, payments[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse(), "payments": paymentResponses})
}

// @Summary Post Invoice
// @Description Sends the invoice and posts its receivable, revenue and tax entries
// @Tags Invoices
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Router /accounting/invoices/{invoice_id}/post [post]
func (h *InvoiceHandler) Post(c *gin.Context) {
	id, ok := parseID(c, "invoice_id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.Post(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse()})
}

// @Summary Void Invoice
// @Tags Invoices
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Router /accounting/invoices/{invoice_id}/void [post]
func (h *InvoiceHandler) Void(c *gin.Context) {
	id, ok := parseID(c, "invoice_id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.Void(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse()})
}
