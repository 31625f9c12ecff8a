package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	db *gorm.DB

	Account        AccountRepository
	Transaction    TransactionRepository
	Period         PeriodRepository
	TaxCode        TaxCodeRepository
	Invoice        InvoiceRepository
	Payment        PaymentRepository
	Budget         BudgetRepository
	Reconciliation ReconciliationRepository
	Audit          AuditRepository
	Analytics      AnalyticsRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:             db,
		Account:        NewAccountRepository(db),
		Transaction:    NewTransactionRepository(db),
		Period:         NewPeriodRepository(db),
		TaxCode:        NewTaxCodeRepository(db),
		Invoice:        NewInvoiceRepository(db),
		Payment:        NewPaymentRepository(db),
		Budget:         NewBudgetRepository(db),
		Reconciliation: NewReconciliationRepository(db),
		Audit:          NewAuditRepository(db),
		Analytics:      NewAnalyticsRepository(db),
	}
}

// WithTx runs fn inside one database transaction. The Repositories passed to
// fn are bound to that transaction; fn must not use the outer instance.
// Returning an error rolls everything back.
func (r *Repositories) WithTx(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
