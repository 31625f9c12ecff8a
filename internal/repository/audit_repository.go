package repository

import (
	"context"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"gorm.io/gorm"
)

// AuditRepository defines the interface for audit log data access
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, query *ListQuery) ([]models.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, query *ListQuery) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if e := query.Filter("entity"); e != "" {
		db = db.Where("entity = ?", e)
	}
	if id := query.Filter("entity_id"); id != "" {
		db = db.Where("entity_id = ?", id)
	}
	if a := query.Filter("action"); a != "" {
		db = db.Where("action = ?", a)
	}
	if u := query.Filter("user_id"); u != "" {
		db = db.Where("user_id = ?", u)
	}

	db, err := paginate(db, query, map[string]string{
		"created_at": "created_at",
		"action":     "action",
	}, "created_at DESC, id DESC", &total)
	if err != nil {
		return nil, 0, err
	}

	if err := db.Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
