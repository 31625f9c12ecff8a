package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/sjperalta/fintera-ledger/internal/statemachine"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"gorm.io/gorm"
)

// ErrorKind groups ledger errors by how a caller should react
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindInvariant  ErrorKind = "invariant"
	KindState      ErrorKind = "state"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
)

// LedgerError is a classified service error. Sentinels below are compared
// with errors.Is; context is added by wrapping with %w.
type LedgerError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *LedgerError) Error() string {
	return e.Message
}

func newError(kind ErrorKind, code, message string) *LedgerError {
	return &LedgerError{Kind: kind, Code: code, Message: message}
}

// Common service errors
var (
	ErrValidation     = newError(KindValidation, "validation_error", "invalid input")
	ErrNoFiscalPeriod = newError(KindValidation, "no_fiscal_period", "no fiscal period covers the date")
	ErrPeriodOverlap  = newError(KindValidation, "period_overlap", "fiscal period overlaps an existing period")
	ErrInvalidParent  = newError(KindValidation, "invalid_parent", "invalid parent account")
	ErrDuplicateCode  = newError(KindValidation, "duplicate_code", "code already exists")
	ErrDuplicate      = newError(KindValidation, "duplicate", "record already exists")
	ErrOverpayment    = newError(KindValidation, "overpayment", "payment exceeds the invoice balance")

	ErrUnbalanced  = newError(KindInvariant, "unbalanced", "debits and credits do not balance")
	ErrDiscrepancy = newError(KindInvariant, "discrepancy", "reconciled balance does not match statement")

	ErrNotDraft             = newError(KindState, "not_draft", "transaction is not a draft")
	ErrNotPosted            = newError(KindState, "not_posted", "transaction is not posted")
	ErrPeriodClosed         = newError(KindState, "period_closed", "fiscal period is not open")
	ErrPeriodLocked         = newError(KindState, "period_locked", "fiscal period is locked")
	ErrAlreadyReversed      = newError(KindState, "already_reversed", "transaction is already reversed")
	ErrInvalidTransition    = newError(KindState, "invalid_transition", "invalid state transition")
	ErrHasDraftTransactions = newError(KindState, "has_draft_transactions", "fiscal period has draft transactions")
	ErrAccountInUse         = newError(KindState, "account_in_use", "account is referenced by draft transactions")
	ErrWorkerStopped        = newError(KindState, "worker_stopped", "background worker is shutting down")

	ErrNotFound = newError(KindNotFound, "not_found", "record not found")
	ErrConflict = newError(KindConflict, "conflict", "record was modified concurrently, retry")
)

// DiscrepancyError reports how far a reconciliation is from its statement
type DiscrepancyError struct {
	Amount decimal.Decimal
}

func (e *DiscrepancyError) Error() string {
	return fmt.Sprintf("%s: difference %s", ErrDiscrepancy.Message, amount.String(e.Amount))
}

func (e *DiscrepancyError) Unwrap() error {
	return ErrDiscrepancy
}

// KindOf returns the kind and code of a ledger error, or ok=false for unknown errors
func KindOf(err error) (kind ErrorKind, code string, ok bool) {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind, le.Code, true
	}
	return "", "", false
}

// invalid builds a validation error with a specific message
func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// wrap adds context to a sentinel
func wrap(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// translate maps repository and state machine errors to ledger errors
func translate(err error, entity string, id uint) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return wrap(ErrNotFound, "%s %d not found", entity, id)
	case errors.Is(err, repository.ErrStaleVersion), errors.Is(err, repository.ErrStateChanged):
		return wrap(ErrConflict, "%s %d", entity, id)
	case errors.Is(err, statemachine.ErrTransition):
		return fmt.Errorf("%w: %s", ErrInvalidTransition, err.Error())
	}
	return err
}
