package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	SetNumber(ctx context.Context, id uint, number string) error
	SumCompletedForInvoice(ctx context.Context, invoiceID uint) (decimal.Decimal, error)
	ListByInvoice(ctx context.Context, invoiceID uint) ([]models.Payment, error)
	List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return translateWriteError(r.db.WithContext(ctx).Create(payment).Error)
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).
		Model(payment).
		Select("Status", "TransactionID", "FailureReason", "CompletedAt").
		Updates(payment).Error
}

func (r *paymentRepository) SetNumber(ctx context.Context, id uint, number string) error {
	return translateWriteError(r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		Update("payment_number", number).Error)
}

// SumCompletedForInvoice totals completed payments applied to an invoice
func (r *paymentRepository) SumCompletedForInvoice(ctx context.Context, invoiceID uint) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("invoice_id = ? AND status = ?", invoiceID, models.PaymentStatusCompleted).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Round(row.Total), nil
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{})

	if query.Search != "" {
		pattern := likePattern(query.Search)
		db = db.Where("LOWER(payment_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(reference) LIKE ?", pattern, pattern, pattern)
	}
	if s := query.Filter("status"); s != "" {
		db = db.Where("status = ?", s)
	}
	if m := query.Filter("payment_method"); m != "" {
		db = db.Where("payment_method = ?", m)
	}
	if inv := query.Filter("invoice_id"); inv != "" {
		db = db.Where("invoice_id = ?", inv)
	}

	db, err := paginate(db, query, map[string]string{
		"payment_number": "payment_number",
		"payment_date":   "payment_date",
		"amount":         "amount",
		"status":         "status",
	}, "payment_date DESC, id DESC", &total)
	if err != nil {
		return nil, 0, err
	}

	if err := db.Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}
