package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// Date truncates t to midnight UTC. Ledger dates carry no time of day.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current ledger date
func Today() time.Time {
	return Date(time.Now())
}

// ParseDate parses a YYYY-MM-DD string into a ledger date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date(t), nil
}

// FormatDate renders a ledger date
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// FormatDatePtr renders an optional date, nil stays nil
func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}

// Reference types used to link ledger transactions to their source documents
const (
	ReferenceInvoice = "invoice"
	ReferencePayment = "payment"
)
