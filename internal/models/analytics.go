package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsCache represents a cached analytics result
type AnalyticsCache struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CacheKey  string          `gorm:"size:191;not null;uniqueIndex" json:"cache_key"`
	Data      json.RawMessage `gorm:"type:jsonb;not null" json:"data"`
	ExpiresAt time.Time       `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for AnalyticsCache
func (AnalyticsCache) TableName() string {
	return "analytics_cache"
}

// AnalyticsCacheGeneration is a singleton counter bumped on every cache
// invalidation. A payload computed under an older generation is not stored.
type AnalyticsCacheGeneration struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Generation int64     `gorm:"not null;default:0" json:"generation"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (AnalyticsCacheGeneration) TableName() string {
	return "analytics_cache_generation"
}

// AnalyticsGenerationID is the primary key of the single generation row
const AnalyticsGenerationID = 1

// FinancialRatios are nil when their denominator is zero
type FinancialRatios struct {
	CurrentRatio      *decimal.Decimal `json:"current_ratio"`
	QuickRatio        *decimal.Decimal `json:"quick_ratio"`
	DebtToEquityRatio *decimal.Decimal `json:"debt_to_equity_ratio"`
	ReturnOnAssets    *decimal.Decimal `json:"return_on_assets"`
	ReturnOnEquity    *decimal.Decimal `json:"return_on_equity"`
}

// TrendPoint is revenue and expense activity for one fiscal period
type TrendPoint struct {
	Month          string `json:"month"`
	FiscalPeriodID uint   `json:"fiscal_period_id"`
	Revenue        string `json:"revenue"`
	Expenses       string `json:"expenses"`
	NetIncome      string `json:"net_income"`
}

// AccountBalance is one account's signed balance in a report
type AccountBalance struct {
	AccountID   uint           `json:"account_id"`
	AccountCode string         `json:"account_code"`
	AccountName string         `json:"account_name"`
	AccountType AccountType    `json:"account_type"`
	Subtype     AccountSubtype `json:"account_subtype,omitempty"`
	Balance     string         `json:"balance"`
}

// ExpenseShare is an expense account's share of total expenses
type ExpenseShare struct {
	AccountID   uint   `json:"account_id"`
	AccountName string `json:"account_name"`
	Amount      string `json:"amount"`
	Percentage  string `json:"percentage"`
}

// AccountingAnalytics is the dashboard payload
type AccountingAnalytics struct {
	Currency         string           `json:"currency"`
	StartDate        *string          `json:"start_date"`
	EndDate          *string          `json:"end_date"`
	TotalAssets      string           `json:"total_assets"`
	TotalLiabilities string           `json:"total_liabilities"`
	TotalEquity      string           `json:"total_equity"`
	TotalRevenue     string           `json:"total_revenue"`
	TotalExpenses    string           `json:"total_expenses"`
	NetIncome        string           `json:"net_income"`
	GrossProfit      string           `json:"gross_profit"`
	OperatingProfit  string           `json:"operating_profit"`
	Ratios           FinancialRatios  `json:"ratios"`
	MonthlyTrends    []TrendPoint     `json:"monthly_trends"`
	AccountBalances  []AccountBalance `json:"account_balances"`
	TopExpenses      []ExpenseShare   `json:"top_expenses"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// ReportSection groups accounts of one type with their total
type ReportSection struct {
	Accounts []AccountBalance `json:"accounts"`
	Total    string           `json:"total"`
}

// BalanceSheet reports assets against liabilities and equity as of a date
type BalanceSheet struct {
	AsOfDate                  string        `json:"as_of_date"`
	Assets                    ReportSection `json:"assets"`
	Liabilities               ReportSection `json:"liabilities"`
	Equity                    ReportSection `json:"equity"`
	CurrentEarnings           string        `json:"current_earnings"`
	TotalLiabilitiesAndEquity string        `json:"total_liabilities_and_equity"`
	Balanced                  bool          `json:"balanced"`
}

// IncomeStatement reports revenue and expenses over a date range
type IncomeStatement struct {
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	Revenue     ReportSection `json:"revenue"`
	Expenses    ReportSection `json:"expenses"`
	GrossProfit string        `json:"gross_profit"`
	NetIncome   string        `json:"net_income"`
}

// TrialBalanceLine is one account in the trial balance
type TrialBalanceLine struct {
	AccountID   uint        `json:"account_id"`
	AccountCode string      `json:"account_code"`
	AccountName string      `json:"account_name"`
	AccountType AccountType `json:"account_type"`
	Debit       string      `json:"debit"`
	Credit      string      `json:"credit"`
}

// TrialBalance lists debit and credit balances; the totals must agree
type TrialBalance struct {
	AsOfDate    string             `json:"as_of_date"`
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  string             `json:"total_debit"`
	TotalCredit string             `json:"total_credit"`
	Balanced    bool               `json:"balanced"`
}
