package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
)

// AccountType is the top-level classification of an account
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists every account type in reporting order
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// Valid reports whether t is a known account type
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// DebitNormal reports whether debits increase accounts of this type
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// SignedDelta converts a debit/credit pair into a balance change for this type
func (t AccountType) SignedDelta(debit, credit decimal.Decimal) decimal.Decimal {
	if t.DebitNormal() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// BalanceSheet reports whether the type belongs on the balance sheet
func (t AccountType) BalanceSheet() bool {
	return t == AccountTypeAsset || t == AccountTypeLiability || t == AccountTypeEquity
}

// AccountSubtype refines the type for ratio and report calculations
type AccountSubtype string

const (
	SubtypeNone              AccountSubtype = ""
	SubtypeCurrentAsset      AccountSubtype = "current_asset"
	SubtypeInventory         AccountSubtype = "inventory"
	SubtypeFixedAsset        AccountSubtype = "fixed_asset"
	SubtypeCurrentLiability  AccountSubtype = "current_liability"
	SubtypeLongTermLiability AccountSubtype = "long_term_liability"
	SubtypeCostOfSales       AccountSubtype = "cost_of_sales"
	SubtypeOperatingExpense  AccountSubtype = "operating_expense"
)

var subtypeOwners = map[AccountSubtype]AccountType{
	SubtypeCurrentAsset:      AccountTypeAsset,
	SubtypeInventory:         AccountTypeAsset,
	SubtypeFixedAsset:        AccountTypeAsset,
	SubtypeCurrentLiability:  AccountTypeLiability,
	SubtypeLongTermLiability: AccountTypeLiability,
	SubtypeCostOfSales:       AccountTypeExpense,
	SubtypeOperatingExpense:  AccountTypeExpense,
}

// ValidFor reports whether the subtype may be used with the given type
func (s AccountSubtype) ValidFor(t AccountType) bool {
	if s == SubtypeNone {
		return true
	}
	owner, ok := subtypeOwners[s]
	return ok && owner == t
}

// Account is a node in the chart of accounts
type Account struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Code            string          `gorm:"size:20;not null;uniqueIndex" json:"code"`
	Name            string          `gorm:"size:150;not null" json:"name"`
	Type            AccountType     `gorm:"size:20;not null;index" json:"type"`
	Subtype         AccountSubtype  `gorm:"size:30" json:"subtype"`
	ParentID        *uint           `gorm:"index" json:"parent_id"`
	Description     string          `gorm:"type:text" json:"description"`
	IsActive        bool            `gorm:"not null" json:"is_active"`
	IsSystemAccount bool            `gorm:"not null;default:false" json:"is_system_account"`
	Balance         decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"balance"`
	Version         uint            `gorm:"not null" json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// AccountResponse is the JSON response format
type AccountResponse struct {
	ID              uint           `json:"id"`
	AccountCode     string         `json:"account_code"`
	AccountName     string         `json:"account_name"`
	AccountType     AccountType    `json:"account_type"`
	AccountSubtype  AccountSubtype `json:"account_subtype,omitempty"`
	ParentID        *uint          `json:"parent_id"`
	Description     string         `json:"description"`
	IsActive        bool           `json:"is_active"`
	IsSystemAccount bool           `json:"is_system_account"`
	Balance         string         `json:"balance"`
	Currency        string         `json:"currency"`
	Version         uint           `json:"version"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// ToResponse converts Account to AccountResponse
func (a *Account) ToResponse() AccountResponse {
	return AccountResponse{
		ID:              a.ID,
		AccountCode:     a.Code,
		AccountName:     a.Name,
		AccountType:     a.Type,
		AccountSubtype:  a.Subtype,
		ParentID:        a.ParentID,
		Description:     a.Description,
		IsActive:        a.IsActive,
		IsSystemAccount: a.IsSystemAccount,
		Balance:         amount.String(a.Balance),
		Currency:        amount.Ledger().Code,
		Version:         a.Version,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// AccountNode is one level of the chart-of-accounts tree
type AccountNode struct {
	AccountResponse
	Children []*AccountNode `json:"children"`
}

// BuildAccountTree nests accounts under their parents, preserving input order
func BuildAccountTree(accounts []Account) []*AccountNode {
	nodes := make(map[uint]*AccountNode, len(accounts))
	for i := range accounts {
		nodes[accounts[i].ID] = &AccountNode{AccountResponse: accounts[i].ToResponse(), Children: []*AccountNode{}}
	}

	roots := []*AccountNode{}
	for i := range accounts {
		node := nodes[accounts[i].ID]
		if p := accounts[i].ParentID; p != nil {
			if parent, ok := nodes[*p]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
