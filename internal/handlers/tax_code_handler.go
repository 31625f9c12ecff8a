package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/middleware"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/services"
)

type TaxCodeHandler struct {
	taxCodeService *services.TaxCodeService
}

func NewTaxCodeHandler(taxCodeService *services.TaxCodeService) *TaxCodeHandler {
	return &TaxCodeHandler{taxCodeService: taxCodeService}
}

// TaxCodeRequest is shared by create and update. On update only the fields
// present are changed; code is ignored.
type TaxCodeRequest struct {
	Code             string           `json:"code" example:"ISV"`
	Name             *string          `json:"name"`
	Rate             *decimal.Decimal `json:"rate" swaggertype:"string" example:"15"`
	Type             *string          `json:"type" example:"sales"`
	EffectiveFrom    string           `json:"effective_from" example:"2026-01-01"`
	EffectiveTo      string           `json:"effective_to"`
	ClearEffectiveTo bool             `json:"clear_effective_to"`
	TaxAccountID     *uint            `json:"tax_account_id"`
	IsActive         *bool            `json:"is_active"`
}

func (r TaxCodeRequest) toInput() (services.TaxCodeInput, error) {
	from, err := parseOptionalDate(r.EffectiveFrom)
	if err != nil {
		return services.TaxCodeInput{}, err
	}
	to, err := parseOptionalDate(r.EffectiveTo)
	if err != nil {
		return services.TaxCodeInput{}, err
	}
	return services.TaxCodeInput{
		Code:             r.Code,
		Name:             r.Name,
		Rate:             r.Rate,
		Type:             r.Type,
		EffectiveFrom:    from,
		EffectiveTo:      to,
		ClearEffectiveTo: r.ClearEffectiveTo,
		TaxAccountID:     r.TaxAccountID,
		IsActive:         r.IsActive,
	}, nil
}

// @Summary List Tax Codes
// @Tags Tax Codes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param type query string false "sales or purchase"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} map[string]interface{}
// @Router /accounting/tax-codes [get]
func (h *TaxCodeHandler) Index(c *gin.Context) {
	query := listQuery(c, "type")
	if a := c.Query("active"); a != "" {
		query.Filters["is_active"] = a
	}

	codes, total, err := h.taxCodeService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.TaxCodeResponse, 0, len(codes))
	for i := range codes {
		responses = append(responses, codes[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"tax_codes":  responses,
		"pagination": pagination(query, total),
	})
}

// @Summary Get Tax Code
// @Description With effective_on, fails unless the code applies on that date
// @Tags Tax Codes
// @Produce json
// @Param tax_code_id path int true "Tax code ID"
// @Param effective_on query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} models.TaxCodeResponse
// @Router /accounting/tax-codes/{tax_code_id} [get]
func (h *TaxCodeHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "tax_code_id")
	if !ok {
		return
	}
	on, err := parseOptionalDate(c.Query("effective_on"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var code *models.TaxCode
	if on != nil {
		code, err = h.taxCodeService.EffectiveOn(c.Request.Context(), id, *on)
	} else {
		code, err = h.taxCodeService.Get(c.Request.Context(), id)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tax_code": code.ToResponse()})
}

// @Summary Create Tax Code
// @Tags Tax Codes
// @Accept json
// @Produce json
// @Param tax_code body TaxCodeRequest true "Tax code"
// @Success 201 {object} models.TaxCodeResponse
// @Failure 409 {object} map[string]string
// @Router /accounting/tax-codes [post]
func (h *TaxCodeHandler) Create(c *gin.Context) {
	var req TaxCodeRequest
	if err := BindNestedOrFlat(c, "tax_code", &req); err != nil {
		badRequest(c, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	code, err := h.taxCodeService.Create(c.Request.Context(), input, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tax_code": code.ToResponse()})
}

// @Summary Update Tax Code
// @Tags Tax Codes
// @Accept json
// @Produce json
// @Param tax_code_id path int true "Tax code ID"
// @Param tax_code body TaxCodeRequest true "Changes"
// @Success 200 {object} models.TaxCodeResponse
// @Router /accounting/tax-codes/{tax_code_id} [put]
func (h *TaxCodeHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "tax_code_id")
	if !ok {
		return
	}
	var req TaxCodeRequest
	if err := BindNestedOrFlat(c, "tax_code", &req); err != nil {
		badRequest(c, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	code, err := h.taxCodeService.Update(c.Request.Context(), id, input, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tax_code": code.ToResponse()})
}

// @Summary Deactivate Tax Code
// @Tags Tax Codes
// @Produce json
// @Param tax_code_id path int true "Tax code ID"
// @Success 200 {object} models.TaxCodeResponse
// @Router /accounting/tax-codes/{tax_code_id} [delete]
func (h *TaxCodeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "tax_code_id")
	if !ok {
		return
	}
	code, err := h.taxCodeService.Deactivate(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tax_code": code.ToResponse()})
}
