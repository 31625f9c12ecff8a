package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"gorm.io/gorm"
)

// AccountRepository defines the interface for chart-of-accounts data access
type AccountRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Account, error)
	FindByCode(ctx context.Context, code string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	UpdateDetails(ctx context.Context, account *models.Account) error
	ApplyBalance(ctx context.Context, id uint, version uint, balance decimal.Decimal) error
	SetBalance(ctx context.Context, id uint, balance decimal.Decimal) error
	CountChildren(ctx context.Context, id uint) (int64, error)
	List(ctx context.Context, query *ListQuery) ([]models.Account, int64, error)
	FindAll(ctx context.Context) ([]models.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Account, error) {
	var accounts []models.Account
	if len(ids) == 0 {
		return accounts, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) FindByCode(ctx context.Context, code string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return translateWriteError(r.db.WithContext(ctx).Create(account).Error)
}

// UpdateDetails writes the editable fields only. Balance and version are
// owned by ApplyBalance.
func (r *accountRepository) UpdateDetails(ctx context.Context, account *models.Account) error {
	return translateWriteError(r.db.WithContext(ctx).
		Model(account).
		Select("Name", "Description", "Subtype", "ParentID", "IsActive").
		Updates(account).Error)
}

// ApplyBalance stores a new balance if the row is still at version
func (r *accountRepository) ApplyBalance(ctx context.Context, id uint, version uint, balance decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"balance": balance,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}

// SetBalance overwrites the cached balance unconditionally; used by repair
func (r *accountRepository) SetBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance": balance,
			"version": gorm.Expr("version + 1"),
		}).Error
}

func (r *accountRepository) CountChildren(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

func (r *accountRepository) List(ctx context.Context, query *ListQuery) ([]models.Account, int64, error) {
	var accounts []models.Account
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Account{})

	if query.Search != "" {
		pattern := likePattern(query.Search)
		db = db.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}
	if t := query.Filter("account_type"); t != "" {
		db = db.Where("type = ?", t)
	}
	if s := query.Filter("account_subtype"); s != "" {
		db = db.Where("subtype = ?", s)
	}
	switch query.Filter("is_active") {
	case "true":
		db = db.Where("is_active = ?", true)
	case "false":
		db = db.Where("is_active = ?", false)
	}
	if p := query.Filter("parent_id"); p != "" {
		db = db.Where("parent_id = ?", p)
	}

	db, err := paginate(db, query, map[string]string{
		"code":       "code",
		"name":       "name",
		"type":       "type",
		"balance":    "balance",
		"created_at": "created_at",
	}, "code ASC", &total)
	if err != nil {
		return nil, 0, err
	}

	if err := db.Find(&accounts).Error; err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (r *accountRepository) FindAll(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).Order("code ASC").Find(&accounts).Error
	return accounts, err
}
