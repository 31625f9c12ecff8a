package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tax code types
const (
	TaxTypeSales    = "sales"
	TaxTypePurchase = "purchase"
)

// TaxCode is a named tax rate applied to invoice lines
type TaxCode struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"size:20;not null;uniqueIndex" json:"code"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Rate          decimal.Decimal `gorm:"type:numeric(7,4);not null" json:"rate"` // percentage, 15 means 15%
	Type          string          `gorm:"size:20;not null" json:"type"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
	EffectiveFrom time.Time       `gorm:"type:date;not null" json:"effective_from"`
	EffectiveTo   *time.Time      `gorm:"type:date" json:"effective_to"`
	TaxAccountID  uint            `gorm:"not null;index" json:"tax_account_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for TaxCode
func (TaxCode) TableName() string {
	return "tax_codes"
}

// EffectiveOn reports whether the code is active and in force on date
func (t *TaxCode) EffectiveOn(date time.Time) bool {
	d := Date(date)
	if !t.IsActive || d.Before(Date(t.EffectiveFrom)) {
		return false
	}
	return t.EffectiveTo == nil || !d.After(Date(*t.EffectiveTo))
}

// TaxCodeResponse is the JSON response format
type TaxCodeResponse struct {
	ID            uint    `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Rate          string  `json:"rate"`
	Type          string  `json:"type"`
	IsActive      bool    `json:"is_active"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to"`
	TaxAccountID  uint    `json:"tax_account_id"`
}

// ToResponse converts TaxCode to TaxCodeResponse
func (t *TaxCode) ToResponse() TaxCodeResponse {
	return TaxCodeResponse{
		ID:            t.ID,
		Code:          t.Code,
		Name:          t.Name,
		Rate:          t.Rate.StringFixed(4),
		Type:          t.Type,
		IsActive:      t.IsActive,
		EffectiveFrom: FormatDate(t.EffectiveFrom),
		EffectiveTo:   FormatDatePtr(t.EffectiveTo),
		TaxAccountID:  t.TaxAccountID,
	}
}
