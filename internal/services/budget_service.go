package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/sjperalta/fintera-ledger/internal/statemachine"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"github.com/sjperalta/fintera-ledger/pkg/logger"
)

type CreateBudgetInput struct {
	Name           string
	AccountID      uint
	FiscalPeriodID uint
	BudgetedAmount decimal.Decimal
}

type BudgetService struct {
	repos *repository.Repositories
}

func NewBudgetService(repos *repository.Repositories) *BudgetService {
	return &BudgetService{repos: repos}
}

func (s *BudgetService) Create(ctx context.Context, input CreateBudgetInput, actor Actor) (*models.Budget, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("budget_name is required")
	}
	if input.BudgetedAmount.IsNegative() {
		return nil, invalid("budgeted_amount cannot be negative")
	}
	if err := amount.CheckPrecision(input.BudgetedAmount); err != nil {
		return nil, invalid("budgeted_amount: %v", err)
	}

	budget := &models.Budget{
		Name:           name,
		AccountID:      input.AccountID,
		FiscalPeriodID: input.FiscalPeriodID,
		BudgetedAmount: input.BudgetedAmount,
		Status:         models.BudgetStatusDraft,
	}

	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Account.FindByID(ctx, input.AccountID); err != nil {
			return translate(err, "account", input.AccountID)
		}
		period, err := tx.Period.FindByID(ctx, input.FiscalPeriodID)
		if err != nil {
			return translate(err, "fiscal period", input.FiscalPeriodID)
		}
		if err := tx.Budget.Create(ctx, budget); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return wrap(ErrDuplicate, "a budget for account %d in %s already exists", input.AccountID, period.Name)
			}
			return err
		}
		if err := refreshSnapshot(ctx, tx, budget); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionCreate, "budget", budget.ID,
			"Created budget %s of %s", budget.Name, amount.String(budget.BudgetedAmount))
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// Get computes the actual live and stores it as the new snapshot
func (s *BudgetService) Get(ctx context.Context, id uint) (*models.Budget, error) {
	return s.Refresh(ctx, id)
}

// List returns the stored snapshots without touching the ledger
func (s *BudgetService) List(ctx context.Context, query *repository.ListQuery) ([]models.Budget, int64, error) {
	return s.repos.Budget.List(ctx, query)
}

func (s *BudgetService) Refresh(ctx context.Context, id uint) (*models.Budget, error) {
	budget, err := s.repos.Budget.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "budget", id)
	}
	if budget.Status == models.BudgetStatusClosed {
		return budget, nil
	}
	if err := refreshSnapshot(ctx, s.repos, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// RefreshAll recomputes every open budget and returns how many were refreshed
func (s *BudgetService) RefreshAll(ctx context.Context) (int, error) {
	budgets, err := s.repos.Budget.FindRefreshable(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for i := range budgets {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		if err := refreshSnapshot(ctx, s.repos, &budgets[i]); err != nil {
			logger.FromContext(ctx).Error("Failed to refresh budget", "budget_id", budgets[i].ID, "error", err)
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

func (s *BudgetService) Activate(ctx context.Context, id uint, actor Actor) (*models.Budget, error) {
	return s.transition(ctx, id, actor, models.AuditActionUpdate, func(b *statemachine.BudgetFSM) error {
		return b.Activate(ctx)
	})
}

// Close freezes the budget; its snapshot is refreshed one last time
func (s *BudgetService) Close(ctx context.Context, id uint, actor Actor) (*models.Budget, error) {
	return s.transition(ctx, id, actor, models.AuditActionClose, func(b *statemachine.BudgetFSM) error {
		return b.Close(ctx)
	})
}

func (s *BudgetService) transition(ctx context.Context, id uint, actor Actor, action string, fire func(*statemachine.BudgetFSM) error) (*models.Budget, error) {
	var budget *models.Budget
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		budget, err = tx.Budget.FindByID(ctx, id)
		if err != nil {
			return translate(err, "budget", id)
		}
		from := budget.Status
		if err := fire(statemachine.NewBudgetFSM(budget)); err != nil {
			return translate(err, "budget", id)
		}
		if budget.Status == models.BudgetStatusClosed {
			if err := refreshSnapshot(ctx, tx, budget); err != nil {
				return err
			}
		}
		if err := tx.Budget.Update(ctx, budget); err != nil {
			return err
		}
		return audit(ctx, tx, actor, action, "budget", budget.ID, "Budget %s: %s -> %s", budget.Name, from, budget.Status)
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// budgetActual is the signed movement on the budget's account within its period
func budgetActual(ctx context.Context, repos *repository.Repositories, budget *models.Budget) (decimal.Decimal, error) {
	account, err := repos.Account.FindByID(ctx, budget.AccountID)
	if err != nil {
		return decimal.Zero, translate(err, "account", budget.AccountID)
	}
	period, err := repos.Period.FindByID(ctx, budget.FiscalPeriodID)
	if err != nil {
		return decimal.Zero, translate(err, "fiscal period", budget.FiscalPeriodID)
	}
	totals, err := repos.Transaction.SumByAccount(ctx, &period.StartDate, &period.EndDate, []uint{account.ID})
	if err != nil {
		return decimal.Zero, err
	}
	if len(totals) == 0 {
		return decimal.Zero, nil
	}
	return account.Type.SignedDelta(totals[0].Debit, totals[0].Credit), nil
}

func refreshSnapshot(ctx context.Context, repos *repository.Repositories, budget *models.Budget) error {
	actual, err := budgetActual(ctx, repos, budget)
	if err != nil {
		return err
	}
	budget.ApplyActual(actual, time.Now())
	return repos.Budget.SaveSnapshot(ctx, budget)
}
