// Package amount holds the fixed-point money rules shared by the ledger:
// the ledger currency, its fraction digits, and string formatting.
package amount

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used until SetCurrency is called.
const DefaultCurrency = "USD"

// MaxFraction is the scale of the money columns. Currencies with more
// minor-unit digits cannot be stored exactly.
const MaxFraction = 2

// ErrUnsupportedCurrency is returned for currencies finer than MaxFraction.
var ErrUnsupportedCurrency = errors.New("currency not supported by the ledger")

// RatioPlaces is the rounding applied to financial ratios.
const RatioPlaces = 4

var (
	mu       sync.RWMutex
	currency = mustLookup(DefaultCurrency)
)

// Currency describes the ledger currency.
type Currency struct {
	Code     string
	Fraction int32
	Grapheme string
}

func mustLookup(code string) Currency {
	c, err := Lookup(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup resolves an ISO 4217 code using go-money's currency table and
// rejects currencies whose fraction exceeds MaxFraction.
func Lookup(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	cur := money.GetCurrency(code)
	if cur == nil {
		return Currency{}, fmt.Errorf("unknown currency %q", code)
	}
	if cur.Fraction > MaxFraction {
		return Currency{}, fmt.Errorf("%w: %s uses %d decimal places, at most %d are stored",
			ErrUnsupportedCurrency, cur.Code, cur.Fraction, MaxFraction)
	}
	return Currency{Code: cur.Code, Fraction: int32(cur.Fraction), Grapheme: cur.Grapheme}, nil
}

// SetCurrency switches the ledger currency. Called once at startup.
func SetCurrency(code string) error {
	c, err := Lookup(code)
	if err != nil {
		return err
	}
	mu.Lock()
	currency = c
	mu.Unlock()
	return nil
}

// Ledger returns the configured ledger currency.
func Ledger() Currency {
	mu.RLock()
	defer mu.RUnlock()
	return currency
}

// Fraction returns the number of minor-unit digits of the ledger currency.
func Fraction() int32 {
	return Ledger().Fraction
}

// CheckPrecision rejects values with more fraction digits than the currency allows.
func CheckPrecision(d decimal.Decimal) error {
	frac := Fraction()
	if !d.Equal(d.Round(frac)) {
		return fmt.Errorf("amount %s has more than %d decimal places", d.String(), frac)
	}
	return nil
}

// Round rounds half away from zero to the currency fraction.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Fraction())
}

// String renders d as a fixed-point string ("100.00"). This is the wire format for money.
func String(d decimal.Decimal) string {
	return d.StringFixed(Fraction())
}

// Display renders d with the currency symbol, e.g. "$1,250.00".
func Display(d decimal.Decimal) string {
	cur := Ledger()
	minor := d.Round(cur.Fraction).Shift(cur.Fraction).IntPart()
	return money.New(minor, cur.Code).Display()
}

// Ratio divides num by den and rounds to RatioPlaces. A zero denominator yields nil.
func Ratio(num, den decimal.Decimal) *decimal.Decimal {
	if den.IsZero() {
		return nil
	}
	r := num.DivRound(den, RatioPlaces+2).Round(RatioPlaces)
	return &r
}

// Percent returns part/whole*100 rounded to two places, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).DivRound(whole, 4).Round(2)
}

// Parse reads a money string such as "100.00" and validates its precision.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if err := CheckPrecision(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
