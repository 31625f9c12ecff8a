package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PeriodRepository defines the interface for fiscal period data access
type PeriodRepository interface {
	Create(ctx context.Context, period *models.FiscalPeriod) error
	FindByID(ctx context.Context, id uint) (*models.FiscalPeriod, error)
	FindForDate(ctx context.Context, date time.Time) (*models.FiscalPeriod, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]models.FiscalPeriod, error)
	Update(ctx context.Context, period *models.FiscalPeriod) error
	CountOverlapping(ctx context.Context, start, end time.Time) (int64, error)
	AllocateSequence(ctx context.Context, id uint) (int, error)
	List(ctx context.Context, query *ListQuery) ([]models.FiscalPeriod, int64, error)
	GetCurrentID(ctx context.Context) (uint, error)
	SetCurrent(ctx context.Context, periodID uint) error
}

type periodRepository struct {
	db *gorm.DB
}

// NewPeriodRepository creates a new fiscal period repository
func NewPeriodRepository(db *gorm.DB) PeriodRepository {
	return &periodRepository{db: db}
}

func (r *periodRepository) Create(ctx context.Context, period *models.FiscalPeriod) error {
	return translateWriteError(r.db.WithContext(ctx).Create(period).Error)
}

func (r *periodRepository) FindByID(ctx context.Context, id uint) (*models.FiscalPeriod, error) {
	var period models.FiscalPeriod
	if err := r.db.WithContext(ctx).First(&period, id).Error; err != nil {
		return nil, err
	}
	return &period, nil
}

// FindForDate returns the period whose range contains date
func (r *periodRepository) FindForDate(ctx context.Context, date time.Time) (*models.FiscalPeriod, error) {
	var period models.FiscalPeriod
	d := models.Date(date)
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", d, d).
		Order("start_date ASC").
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// FindInRange returns periods overlapping [from, to] in date order
func (r *periodRepository) FindInRange(ctx context.Context, from, to time.Time) ([]models.FiscalPeriod, error) {
	var periods []models.FiscalPeriod
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", models.Date(to), models.Date(from)).
		Order("start_date ASC").
		Find(&periods).Error
	return periods, err
}

// Update persists status and timestamp changes
func (r *periodRepository) Update(ctx context.Context, period *models.FiscalPeriod) error {
	return r.db.WithContext(ctx).
		Model(period).
		Select("Name", "Status", "ClosedAt", "LockedAt").
		Updates(period).Error
}

func (r *periodRepository) CountOverlapping(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FiscalPeriod{}).
		Where("start_date <= ? AND end_date >= ?", models.Date(end), models.Date(start)).
		Count(&count).Error
	return count, err
}

// AllocateSequence increments the period's transaction counter and returns
// the new value. Must run inside the posting transaction so a rollback
// releases the number.
func (r *periodRepository) AllocateSequence(ctx context.Context, id uint) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&models.FiscalPeriod{}).
		Where("id = ?", id).
		UpdateColumn("last_sequence", gorm.Expr("last_sequence + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var period models.FiscalPeriod
	if err := r.db.WithContext(ctx).Select("last_sequence").First(&period, id).Error; err != nil {
		return 0, err
	}
	return period.LastSequence, nil
}

func (r *periodRepository) List(ctx context.Context, query *ListQuery) ([]models.FiscalPeriod, int64, error) {
	var periods []models.FiscalPeriod
	var total int64

	db := r.db.WithContext(ctx).Model(&models.FiscalPeriod{})

	if query.Search != "" {
		db = db.Where("LOWER(name) LIKE ?", likePattern(query.Search))
	}
	if s := query.Filter("status"); s != "" {
		db = db.Where("status = ?", s)
	}
	if y := query.Filter("fiscal_year"); y != "" {
		db = db.Where("fiscal_year = ?", y)
	}

	db, err := paginate(db, query, map[string]string{
		"start_date":    "start_date",
		"fiscal_year":   "fiscal_year",
		"period_number": "period_number",
		"status":        "status",
	}, "start_date ASC", &total)
	if err != nil {
		return nil, 0, err
	}

	if err := db.Find(&periods).Error; err != nil {
		return nil, 0, err
	}
	return periods, total, nil
}

// GetCurrentID returns the current period id, or 0 when none is set
func (r *periodRepository) GetCurrentID(ctx context.Context) (uint, error) {
	var current models.CurrentFiscalPeriod
	err := r.db.WithContext(ctx).First(&current, models.CurrentFiscalPeriodRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return current.FiscalPeriodID, nil
}

// SetCurrent points the singleton row at periodID in a single upsert
func (r *periodRepository) SetCurrent(ctx context.Context, periodID uint) error {
	row := models.CurrentFiscalPeriod{
		ID:             models.CurrentFiscalPeriodRowID,
		FiscalPeriodID: periodID,
		UpdatedAt:      time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"fiscal_period_id", "updated_at"}),
		}).
		Create(&row).Error
}
