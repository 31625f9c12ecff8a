package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/fintera-ledger/internal/middleware"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/services"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
)

type AccountHandler struct {
	accountService *services.AccountService
	ledgerService  *services.LedgerService
}

func NewAccountHandler(accountService *services.AccountService, ledgerService *services.LedgerService) *AccountHandler {
	return &AccountHandler{accountService: accountService, ledgerService: ledgerService}
}

type CreateAccountRequest struct {
	AccountCode     string                `json:"account_code"`
	AccountName     string                `json:"account_name"`
	AccountType     models.AccountType    `json:"account_type"`
	AccountSubtype  models.AccountSubtype `json:"account_subtype"`
	ParentID        *uint                 `json:"parent_id"`
	Description     string                `json:"description"`
	IsSystemAccount bool                  `json:"is_system_account"`
}

type UpdateAccountRequest struct {
	AccountName    *string                `json:"account_name"`
	Description    *string                `json:"description"`
	AccountSubtype *models.AccountSubtype `json:"account_subtype"`
	ParentID       *uint                  `json:"parent_id"`
	ClearParent    bool                   `json:"clear_parent"`
	IsActive       *bool                  `json:"is_active"`
}

// @Summary List Accounts
// @Description Get a paginated chart of accounts
// @Tags Accounts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search code or name"
// @Param type query string false "Account type"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} map[string]interface{}
// @Router /accounting/accounts [get]
func (h *AccountHandler) Index(c *gin.Context) {
	query := listQuery(c, "account_subtype", "parent_id")
	if t := c.Query("type"); t != "" {
		query.Filters["account_type"] = t
	}
	if a := c.Query("active"); a != "" {
		query.Filters["is_active"] = a
	}

	accounts, total, err := h.accountService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.AccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, accounts[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts":   responses,
		"pagination": pagination(query, total),
	})
}

// @Summary Account Tree
// @Description Get the chart of accounts as a nested hierarchy
// @Tags Accounts
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /accounting/accounts/tree [get]
func (h *AccountHandler) Tree(c *gin.Context) {
	tree, err := h.accountService.Tree(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": tree})
}

// @Summary Get Account
// @Tags Accounts
// @Produce json
// @Param account_id path int true "Account ID"
// @Success 200 {object} models.AccountResponse
// @Failure 404 {object} map[string]string
// @Router /accounting/accounts/{account_id} [get]
func (h *AccountHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "account_id")
	if !ok {
		return
	}
	account, err := h.accountService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account.ToResponse()})
}

// @Summary Account Balance
// @Description Current stored balance, or the balance from posted entries up to as_of
// @Tags Accounts
// @Produce json
// @Param account_id path int true "Account ID"
// @Param as_of query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Router /accounting/accounts/{account_id}/balance [get]
func (h *AccountHandler) Balance(c *gin.Context) {
	id, ok := parseID(c, "account_id")
	if !ok {
		return
	}
	asOf, err := parseOptionalDate(c.Query("as_of"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	resp := gin.H{"account_id": id, "currency": amount.Ledger().Code}
	if asOf == nil {
		balance, err := h.accountService.GetBalance(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		resp["balance"] = amount.String(balance)
	} else {
		balance, err := h.ledgerService.BalanceAsOf(c.Request.Context(), id, *asOf)
		if err != nil {
			respondError(c, err)
			return
		}
		resp["balance"] = amount.String(balance)
		resp["as_of"] = models.FormatDate(*asOf)
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Create Account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param account body CreateAccountRequest true "Account"
// @Success 201 {object} models.AccountResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /accounting/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := BindNestedOrFlat(c, "account", &req); err != nil {
		badRequest(c, err.Error())
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), services.CreateAccountInput{
		Code:            req.AccountCode,
		Name:            req.AccountName,
		Type:            req.AccountType,
		Subtype:         req.AccountSubtype,
		ParentID:        req.ParentID,
		Description:     req.Description,
		IsSystemAccount: req.IsSystemAccount,
	}, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"account": account.ToResponse()})
}

// @Summary Update Account
// @Description Code and type are immutable
// @Tags Accounts
// @Accept json
// @Produce json
// @Param account_id path int true "Account ID"
// @Param account body UpdateAccountRequest true "Changes"
// @Success 200 {object} models.AccountResponse
// @Router /accounting/accounts/{account_id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "account_id")
	if !ok {
		return
	}
	var req UpdateAccountRequest
	if err := BindNestedOrFlat(c, "account", &req); err != nil {
		badRequest(c, err.Error())
		return
	}

	account, err := h.accountService.Update(c.Request.Context(), id, services.UpdateAccountInput{
		Name:        req.AccountName,
		Description: req.Description,
		Subtype:     req.AccountSubtype,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
		IsActive:    req.IsActive,
	}, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account.ToResponse()})
}

// @Summary Deactivate Account
// @Description Accounts are never hard-deleted
// @Tags Accounts
// @Produce json
// @Param account_id path int true "Account ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /accounting/accounts/{account_id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "account_id")
	if !ok {
		return
	}
	if err := h.accountService.Deactivate(c.Request.Context(), id, middleware.ActorFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deactivated"})
}
