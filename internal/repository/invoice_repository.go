package repository

import (
	"context"
	"strings"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"gorm.io/gorm"
)

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	SetNumber(ctx context.Context, id uint, number string) error
	List(ctx context.Context, query *ListQuery) ([]models.Invoice, int64, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create inserts the invoice with its line items
func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return translateWriteError(r.db.WithContext(ctx).Create(invoice).Error)
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Update persists the header; line items are immutable after create
func (r *invoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).
		Model(invoice).
		Select("Status", "PaidAmount", "BalanceAmount", "TransactionID", "Notes").
		Updates(invoice).Error
}

func (r *invoiceRepository) SetNumber(ctx context.Context, id uint, number string) error {
	return translateWriteError(r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Update("invoice_number", number).Error)
}

func (r *invoiceRepository) List(ctx context.Context, query *ListQuery) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Invoice{})

	if query.Search != "" {
		pattern := likePattern(query.Search)
		db = db.Where("LOWER(invoice_number) LIKE ? OR LOWER(customer_name) LIKE ?", pattern, pattern)
	}
	if s := query.Filter("status"); s != "" {
		db = db.Where("status = ?", s)
	}
	if c := query.Filter("customer_name"); c != "" {
		db = db.Where("LOWER(customer_name) = ?", strings.ToLower(c))
	}
	if query.Filter("overdue") == "true" {
		db = db.Where("status IN ? AND due_date < ?",
			[]string{models.InvoiceStatusSent, models.InvoiceStatusPartiallyPaid}, models.Today())
	}

	db, err := paginate(db, query, map[string]string{
		"invoice_number": "invoice_number",
		"invoice_date":   "invoice_date",
		"due_date":       "due_date",
		"total_amount":   "total_amount",
		"status":         "status",
	}, "invoice_date DESC, id DESC", &total)
	if err != nil {
		return nil, 0, err
	}

	err = db.Preload("LineItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_number ASC")
	}).Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}
