package handlers

import "github.com/gin-gonic/gin"

// Register mounts the health check and the accounting routes under v1
func (h *Handlers) Register(v1 *gin.RouterGroup) {
	v1.GET("/health", h.Health.Index)

	acct := v1.Group("/accounting")
	{
		accounts := acct.Group("/accounts")
		{
			accounts.GET("", h.Account.Index)
			accounts.GET("/tree", h.Account.Tree)
			accounts.POST("", h.Account.Create)
			accounts.GET("/:account_id", h.Account.Show)
			accounts.GET("/:account_id/balance", h.Account.Balance)
			accounts.PUT("/:account_id", h.Account.Update)
			accounts.DELETE("/:account_id", h.Account.Delete)
		}

		txns := acct.Group("/transactions")
		{
			txns.GET("", h.Transaction.Index)
			txns.POST("", h.Transaction.Create)
			txns.GET("/:transaction_id", h.Transaction.Show)
			txns.POST("/:transaction_id/post", h.Transaction.Post)
			txns.POST("/:transaction_id/reverse", h.Transaction.Reverse)
			txns.POST("/:transaction_id/void", h.Transaction.Void)
		}

		// Static route first so "current" is not matched as :period_id
		periods := acct.Group("/fiscal-periods")
		{
			periods.GET("", h.Period.Index)
			periods.POST("", h.Period.Create)
			periods.GET("/current", h.Period.Current)
			periods.GET("/:period_id", h.Period.Show)
			periods.POST("/:period_id/close", h.Period.Close)
			periods.POST("/:period_id/reopen", h.Period.Reopen)
			periods.POST("/:period_id/lock", h.Period.Lock)
			periods.POST("/:period_id/override-reopen", h.Period.OverrideReopen)
			periods.POST("/:period_id/set-current", h.Period.SetCurrent)
		}

		recs := acct.Group("/reconciliations")
		{
			recs.GET("", h.Reconciliation.Index)
			recs.POST("", h.Reconciliation.Create)
			recs.GET("/:reconciliation_id", h.Reconciliation.Show)
			recs.POST("/:reconciliation_id/items", h.Reconciliation.AddItem)
			recs.DELETE("/:reconciliation_id/items/:item_id", h.Reconciliation.RemoveItem)
			recs.POST("/:reconciliation_id/complete", h.Reconciliation.Complete)
		}

		invoices := acct.Group("/invoices")
		{
			invoices.GET("", h.Invoice.Index)
			invoices.POST("", h.Invoice.Create)
			invoices.GET("/:invoice_id", h.Invoice.Show)
			invoices.POST("/:invoice_id/post", h.Invoice.Post)
			invoices.POST("/:invoice_id/void", h.Invoice.Void)
		}

		payments := acct.Group("/payments")
		{
			payments.GET("", h.Payment.Index)
			payments.POST("", h.Payment.Create)
			payments.GET("/:payment_id", h.Payment.Show)
			payments.POST("/:payment_id/complete", h.Payment.Complete)
			payments.POST("/:payment_id/fail", h.Payment.Fail)
			payments.POST("/:payment_id/reverse", h.Payment.Reverse)
		}

		budgets := acct.Group("/budgets")
		{
			budgets.GET("", h.Budget.Index)
			budgets.POST("", h.Budget.Create)
			budgets.GET("/:budget_id", h.Budget.Show)
			budgets.POST("/:budget_id/refresh", h.Budget.Refresh)
			budgets.POST("/:budget_id/activate", h.Budget.Activate)
			budgets.POST("/:budget_id/close", h.Budget.Close)
		}

		taxCodes := acct.Group("/tax-codes")
		{
			taxCodes.GET("", h.TaxCode.Index)
			taxCodes.POST("", h.TaxCode.Create)
			taxCodes.GET("/:tax_code_id", h.TaxCode.Show)
			taxCodes.PUT("/:tax_code_id", h.TaxCode.Update)
			taxCodes.DELETE("/:tax_code_id", h.TaxCode.Delete)
		}

		acct.GET("/analytics", h.Analytics.Overview)
		reports := acct.Group("/reports")
		{
			reports.GET("/balance-sheet", h.Analytics.BalanceSheet)
			reports.GET("/income-statement", h.Analytics.IncomeStatement)
			reports.GET("/trial-balance", h.Analytics.TrialBalance)
		}

		acct.GET("/audits", h.Audit.Index)
		acct.GET("/jobs/status", h.Job.Status)
		acct.POST("/jobs/:name/run", h.Job.Run)
	}
}
