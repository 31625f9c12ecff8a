package repository

import (
	"context"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"gorm.io/gorm"
)

// ReconciliationRepository defines the interface for reconciliation data access
type ReconciliationRepository interface {
	Create(ctx context.Context, rec *models.Reconciliation) error
	FindByID(ctx context.Context, id uint) (*models.Reconciliation, error)
	Update(ctx context.Context, rec *models.Reconciliation) error
	AddItem(ctx context.Context, item *models.ReconciliationItem) error
	FindItem(ctx context.Context, reconciliationID, itemID uint) (*models.ReconciliationItem, error)
	DeleteItem(ctx context.Context, itemID uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Reconciliation, int64, error)
}

type reconciliationRepository struct {
	db *gorm.DB
}

// NewReconciliationRepository creates a new reconciliation repository
func NewReconciliationRepository(db *gorm.DB) ReconciliationRepository {
	return &reconciliationRepository{db: db}
}

func (r *reconciliationRepository) Create(ctx context.Context, rec *models.Reconciliation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *reconciliationRepository) FindByID(ctx context.Context, id uint) (*models.Reconciliation, error) {
	var rec models.Reconciliation
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&rec, id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *reconciliationRepository) Update(ctx context.Context, rec *models.Reconciliation) error {
	return r.db.WithContext(ctx).
		Model(rec).
		Select("ReconciledBalance", "Status", "Notes", "CompletedAt").
		Updates(rec).Error
}

func (r *reconciliationRepository) AddItem(ctx context.Context, item *models.ReconciliationItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *reconciliationRepository) FindItem(ctx context.Context, reconciliationID, itemID uint) (*models.ReconciliationItem, error) {
	var item models.ReconciliationItem
	err := r.db.WithContext(ctx).
		Where("reconciliation_id = ?", reconciliationID).
		First(&item, itemID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *reconciliationRepository) DeleteItem(ctx context.Context, itemID uint) error {
	return r.db.WithContext(ctx).Delete(&models.ReconciliationItem{}, itemID).Error
}

func (r *reconciliationRepository) List(ctx context.Context, query *ListQuery) ([]models.Reconciliation, int64, error) {
	var recs []models.Reconciliation
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Reconciliation{})

	if s := query.Filter("status"); s != "" {
		db = db.Where("status = ?", s)
	}
	if a := query.Filter("account_id"); a != "" {
		db = db.Where("account_id = ?", a)
	}

	db, err := paginate(db, query, map[string]string{
		"statement_date": "statement_date",
		"status":         "status",
		"created_at":     "created_at",
	}, "statement_date DESC, id DESC", &total)
	if err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Items").Find(&recs).Error; err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}
