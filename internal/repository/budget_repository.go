package repository

import (
	"context"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"gorm.io/gorm"
)

// BudgetRepository defines the interface for budget data access
type BudgetRepository interface {
	Create(ctx context.Context, budget *models.Budget) error
	FindByID(ctx context.Context, id uint) (*models.Budget, error)
	Update(ctx context.Context, budget *models.Budget) error
	SaveSnapshot(ctx context.Context, budget *models.Budget) error
	FindRefreshable(ctx context.Context) ([]models.Budget, error)
	List(ctx context.Context, query *ListQuery) ([]models.Budget, int64, error)
}

type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	return translateWriteError(r.db.WithContext(ctx).Create(budget).Error)
}

func (r *budgetRepository) FindByID(ctx context.Context, id uint) (*models.Budget, error) {
	var budget models.Budget
	if err := r.db.WithContext(ctx).First(&budget, id).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepository) Update(ctx context.Context, budget *models.Budget) error {
	return r.db.WithContext(ctx).
		Model(budget).
		Select("Name", "BudgetedAmount", "Status").
		Updates(budget).Error
}

// SaveSnapshot stores the cached actual and variance columns
func (r *budgetRepository) SaveSnapshot(ctx context.Context, budget *models.Budget) error {
	return r.db.WithContext(ctx).
		Model(budget).
		Select("ActualAmount", "VarianceAmount", "VariancePercent", "ComputedAt").
		Updates(budget).Error
}

// FindRefreshable returns budgets whose snapshot still tracks the ledger
func (r *budgetRepository) FindRefreshable(ctx context.Context) ([]models.Budget, error) {
	var budgets []models.Budget
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{models.BudgetStatusDraft, models.BudgetStatusActive}).
		Order("id ASC").
		Find(&budgets).Error
	return budgets, err
}

func (r *budgetRepository) List(ctx context.Context, query *ListQuery) ([]models.Budget, int64, error) {
	var budgets []models.Budget
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Budget{})

	if query.Search != "" {
		db = db.Where("LOWER(name) LIKE ?", likePattern(query.Search))
	}
	if s := query.Filter("status"); s != "" {
		db = db.Where("status = ?", s)
	}
	if a := query.Filter("account_id"); a != "" {
		db = db.Where("account_id = ?", a)
	}
	if p := query.Filter("fiscal_period_id"); p != "" {
		db = db.Where("fiscal_period_id = ?", p)
	}

	db, err := paginate(db, query, map[string]string{
		"name":            "name",
		"budgeted_amount": "budgeted_amount",
		"variance_amount": "variance_amount",
		"created_at":      "created_at",
	}, "id ASC", &total)
	if err != nil {
		return nil, 0, err
	}

	if err := db.Find(&budgets).Error; err != nil {
		return nil, 0, err
	}
	return budgets, total, nil
}
