package models

import (
	"fmt"
	"time"
)

// Fiscal period status constants
const (
	PeriodStatusOpen   = "open"
	PeriodStatusClosed = "closed"
	PeriodStatusLocked = "locked"
)

// FiscalPeriod is a dated bucket that gates which transactions may post
type FiscalPeriod struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:50;not null" json:"name"`
	FiscalYear   int        `gorm:"not null;uniqueIndex:idx_fiscal_periods_year_number" json:"fiscal_year"`
	PeriodNumber int        `gorm:"not null;uniqueIndex:idx_fiscal_periods_year_number" json:"period_number"`
	StartDate    time.Time  `gorm:"type:date;not null;index" json:"start_date"`
	EndDate      time.Time  `gorm:"type:date;not null;index" json:"end_date"`
	Status       string     `gorm:"size:20;not null;index" json:"status"`
	LastSequence int        `gorm:"not null;default:0" json:"last_sequence"`
	ClosedAt     *time.Time `json:"closed_at"`
	LockedAt     *time.Time `json:"locked_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for FiscalPeriod
func (FiscalPeriod) TableName() string {
	return "fiscal_periods"
}

// Contains reports whether date falls inside the period (both ends inclusive)
func (p *FiscalPeriod) Contains(date time.Time) bool {
	d := Date(date)
	return !d.Before(Date(p.StartDate)) && !d.After(Date(p.EndDate))
}

// IsOpen returns true if transactions may post into the period
func (p *FiscalPeriod) IsOpen() bool {
	return p.Status == PeriodStatusOpen
}

// MayClose returns true if the period can be closed
func (p *FiscalPeriod) MayClose() bool {
	return p.Status == PeriodStatusOpen
}

// MayReopen returns true if the period can be reopened without override
func (p *FiscalPeriod) MayReopen() bool {
	return p.Status == PeriodStatusClosed
}

// MayLock returns true if the period can be locked
func (p *FiscalPeriod) MayLock() bool {
	return p.Status == PeriodStatusOpen || p.Status == PeriodStatusClosed
}

// TransactionNumber formats the n-th transaction number of the period
func (p *FiscalPeriod) TransactionNumber(seq int) string {
	return fmt.Sprintf("TXN-%04d-%02d-%04d", p.FiscalYear, p.PeriodNumber, seq)
}

// CurrentFiscalPeriod is a single-row table pointing at the current period.
// Switching periods is one upsert on this row.
type CurrentFiscalPeriod struct {
	ID             uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FiscalPeriodID uint      `gorm:"not null;uniqueIndex" json:"fiscal_period_id"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for CurrentFiscalPeriod
func (CurrentFiscalPeriod) TableName() string {
	return "current_fiscal_period"
}

// CurrentFiscalPeriodRowID is the primary key of the only current-period row
const CurrentFiscalPeriodRowID = 1

// FiscalPeriodResponse is the JSON response format
type FiscalPeriodResponse struct {
	ID           uint       `json:"id"`
	PeriodName   string     `json:"period_name"`
	FiscalYear   int        `json:"fiscal_year"`
	PeriodNumber int        `json:"period_number"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	Status       string     `json:"status"`
	IsCurrent    bool       `json:"is_current"`
	ClosedAt     *time.Time `json:"closed_at"`
	LockedAt     *time.Time `json:"locked_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToResponse converts FiscalPeriod to FiscalPeriodResponse
func (p *FiscalPeriod) ToResponse(currentID uint) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		ID:           p.ID,
		PeriodName:   p.Name,
		FiscalYear:   p.FiscalYear,
		PeriodNumber: p.PeriodNumber,
		StartDate:    FormatDate(p.StartDate),
		EndDate:      FormatDate(p.EndDate),
		Status:       p.Status,
		IsCurrent:    currentID != 0 && p.ID == currentID,
		ClosedAt:     p.ClosedAt,
		LockedAt:     p.LockedAt,
		CreatedAt:    p.CreatedAt,
	}
}
