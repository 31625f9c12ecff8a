package services

import (
	"github.com/sjperalta/fintera-ledger/internal/config"
	"github.com/sjperalta/fintera-ledger/internal/jobs"
	"github.com/sjperalta/fintera-ledger/internal/repository"
)

// Services holds all service instances
type Services struct {
	Account        *AccountService
	Ledger         *LedgerService
	Period         *PeriodService
	Reconciliation *ReconciliationService
	Analytics      *AnalyticsService
	TaxCode        *TaxCodeService
	Invoice        *InvoiceService
	Payment        *PaymentService
	Budget         *BudgetService
	Audit          *AuditService
	Job            *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config) *Services {
	accountSvc := NewAccountService(repos)
	analyticsSvc := NewAnalyticsService(repos, cfg.AnalyticsCacheTTL)
	budgetSvc := NewBudgetService(repos)

	return &Services{
		Account:        accountSvc,
		Ledger:         NewLedgerService(repos),
		Period:         NewPeriodService(repos),
		Reconciliation: NewReconciliationService(repos),
		Analytics:      analyticsSvc,
		TaxCode:        NewTaxCodeService(repos),
		Invoice:        NewInvoiceService(repos),
		Payment:        NewPaymentService(repos),
		Budget:         budgetSvc,
		Audit:          NewAuditService(repos.Audit),
		Job:            NewJobService(worker, accountSvc, budgetSvc, analyticsSvc),
	}
}
