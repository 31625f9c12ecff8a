package repository

import (
	"context"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"gorm.io/gorm"
)

// TaxCodeRepository defines the interface for tax code data access
type TaxCodeRepository interface {
	FindByID(ctx context.Context, id uint) (*models.TaxCode, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.TaxCode, error)
	Create(ctx context.Context, code *models.TaxCode) error
	Update(ctx context.Context, code *models.TaxCode) error
	List(ctx context.Context, query *ListQuery) ([]models.TaxCode, int64, error)
}

type taxCodeRepository struct {
	db *gorm.DB
}

// NewTaxCodeRepository creates a new tax code repository
func NewTaxCodeRepository(db *gorm.DB) TaxCodeRepository {
	return &taxCodeRepository{db: db}
}

func (r *taxCodeRepository) FindByID(ctx context.Context, id uint) (*models.TaxCode, error) {
	var code models.TaxCode
	if err := r.db.WithContext(ctx).First(&code, id).Error; err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *taxCodeRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.TaxCode, error) {
	var codes []models.TaxCode
	if len(ids) == 0 {
		return codes, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&codes).Error
	return codes, err
}

func (r *taxCodeRepository) Create(ctx context.Context, code *models.TaxCode) error {
	return translateWriteError(r.db.WithContext(ctx).Create(code).Error)
}

func (r *taxCodeRepository) Update(ctx context.Context, code *models.TaxCode) error {
	return translateWriteError(r.db.WithContext(ctx).
		Model(code).
		Select("Name", "Rate", "Type", "IsActive", "EffectiveFrom", "EffectiveTo", "TaxAccountID").
		Updates(code).Error)
}

func (r *taxCodeRepository) List(ctx context.Context, query *ListQuery) ([]models.TaxCode, int64, error) {
	var codes []models.TaxCode
	var total int64

	db := r.db.WithContext(ctx).Model(&models.TaxCode{})

	if query.Search != "" {
		pattern := likePattern(query.Search)
		db = db.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}
	if t := query.Filter("type"); t != "" {
		db = db.Where("type = ?", t)
	}
	switch query.Filter("is_active") {
	case "true":
		db = db.Where("is_active = ?", true)
	case "false":
		db = db.Where("is_active = ?", false)
	}

	db, err := paginate(db, query, map[string]string{
		"code": "code",
		"name": "name",
		"rate": "rate",
	}, "code ASC", &total)
	if err != nil {
		return nil, 0, err
	}

	if err := db.Find(&codes).Error; err != nil {
		return nil, 0, err
	}
	return codes, total, nil
}
