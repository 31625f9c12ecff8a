package handlers

import (
	"github.com/sjperalta/fintera-ledger/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health         *HealthHandler
	Account        *AccountHandler
	Transaction    *TransactionHandler
	Period         *PeriodHandler
	Reconciliation *ReconciliationHandler
	Analytics      *AnalyticsHandler
	Invoice        *InvoiceHandler
	Payment        *PaymentHandler
	Budget         *BudgetHandler
	TaxCode        *TaxCodeHandler
	Audit          *AuditHandler
	Job            *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(),
		Account:        NewAccountHandler(svcs.Account, svcs.Ledger),
		Transaction:    NewTransactionHandler(svcs.Ledger),
		Period:         NewPeriodHandler(svcs.Period),
		Reconciliation: NewReconciliationHandler(svcs.Reconciliation),
		Analytics:      NewAnalyticsHandler(svcs.Analytics),
		Invoice:        NewInvoiceHandler(svcs.Invoice, svcs.Payment),
		Payment:        NewPaymentHandler(svcs.Payment),
		Budget:         NewBudgetHandler(svcs.Budget),
		TaxCode:        NewTaxCodeHandler(svcs.TaxCode),
		Audit:          NewAuditHandler(svcs.Audit),
		Job:            NewJobHandler(svcs.Job),
	}
}
