package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"gorm.io/gorm"
)

var maxTaxRate = decimal.NewFromInt(100)

// TaxCodeInput holds the writable tax code fields. On update nil pointers are left alone.
type TaxCodeInput struct {
	Code             string
	Name             *string
	Rate             *decimal.Decimal
	Type             *string
	EffectiveFrom    *time.Time
	EffectiveTo      *time.Time
	ClearEffectiveTo bool
	TaxAccountID     *uint
	IsActive         *bool
}

type TaxCodeService struct {
	repos *repository.Repositories
}

func NewTaxCodeService(repos *repository.Repositories) *TaxCodeService {
	return &TaxCodeService{repos: repos}
}

func (s *TaxCodeService) Get(ctx context.Context, id uint) (*models.TaxCode, error) {
	code, err := s.repos.TaxCode.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "tax code", id)
	}
	return code, nil
}

func (s *TaxCodeService) List(ctx context.Context, query *repository.ListQuery) ([]models.TaxCode, int64, error) {
	return s.repos.TaxCode.List(ctx, query)
}

// EffectiveOn returns the tax code if it applies on date
func (s *TaxCodeService) EffectiveOn(ctx context.Context, id uint, date time.Time) (*models.TaxCode, error) {
	code, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !code.EffectiveOn(date) {
		return nil, invalid("tax code %s is not effective on %s", code.Code, models.FormatDate(date))
	}
	return code, nil
}

func (s *TaxCodeService) Create(ctx context.Context, input TaxCodeInput, actor Actor) (*models.TaxCode, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, invalid("code is required")
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, invalid("name is required")
	}
	if input.Rate == nil {
		return nil, invalid("rate is required")
	}
	if input.TaxAccountID == nil {
		return nil, invalid("tax_account_id is required")
	}

	tc := &models.TaxCode{
		Code:          code,
		Name:          strings.TrimSpace(*input.Name),
		Rate:          *input.Rate,
		Type:          models.TaxTypeSales,
		IsActive:      true,
		EffectiveFrom: models.Today(),
		TaxAccountID:  *input.TaxAccountID,
	}
	if input.Type != nil {
		tc.Type = *input.Type
	}
	if input.EffectiveFrom != nil {
		tc.EffectiveFrom = models.Date(*input.EffectiveFrom)
	}
	if input.EffectiveTo != nil {
		to := models.Date(*input.EffectiveTo)
		tc.EffectiveTo = &to
	}

	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		if err := validateTaxCode(ctx, tx, tc); err != nil {
			return err
		}
		if err := tx.TaxCode.Create(ctx, tc); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return wrap(ErrDuplicateCode, "tax code %s already exists", code)
			}
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionCreate, "tax_code", tc.ID,
			"Created tax code %s at %s%%", tc.Code, tc.Rate.StringFixed(2))
	})
	if err != nil {
		return nil, err
	}
	return tc, nil
}

func (s *TaxCodeService) Update(ctx context.Context, id uint, input TaxCodeInput, actor Actor) (*models.TaxCode, error) {
	var tc *models.TaxCode
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		tc, err = tx.TaxCode.FindByID(ctx, id)
		if err != nil {
			return translate(err, "tax code", id)
		}

		if input.Name != nil {
			tc.Name = strings.TrimSpace(*input.Name)
		}
		if input.Rate != nil {
			tc.Rate = *input.Rate
		}
		if input.Type != nil {
			tc.Type = *input.Type
		}
		if input.EffectiveFrom != nil {
			tc.EffectiveFrom = models.Date(*input.EffectiveFrom)
		}
		if input.ClearEffectiveTo {
			tc.EffectiveTo = nil
		} else if input.EffectiveTo != nil {
			to := models.Date(*input.EffectiveTo)
			tc.EffectiveTo = &to
		}
		if input.TaxAccountID != nil {
			tc.TaxAccountID = *input.TaxAccountID
		}
		if input.IsActive != nil {
			tc.IsActive = *input.IsActive
		}
		if tc.Name == "" {
			return invalid("name cannot be empty")
		}

		if err := validateTaxCode(ctx, tx, tc); err != nil {
			return err
		}
		if err := tx.TaxCode.Update(ctx, tc); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionUpdate, "tax_code", tc.ID, "Updated tax code %s", tc.Code)
	})
	if err != nil {
		return nil, err
	}
	return tc, nil
}

// Deactivate stops the code from applying to new invoices
func (s *TaxCodeService) Deactivate(ctx context.Context, id uint, actor Actor) (*models.TaxCode, error) {
	var tc *models.TaxCode
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		tc, err = tx.TaxCode.FindByID(ctx, id)
		if err != nil {
			return translate(err, "tax code", id)
		}
		if !tc.IsActive {
			return nil
		}
		tc.IsActive = false
		if err := tx.TaxCode.Update(ctx, tc); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionDeactivate, "tax_code", tc.ID, "Deactivated tax code %s", tc.Code)
	})
	if err != nil {
		return nil, err
	}
	return tc, nil
}

func validateTaxCode(ctx context.Context, tx *repository.Repositories, tc *models.TaxCode) error {
	if tc.Rate.IsNegative() || tc.Rate.GreaterThan(maxTaxRate) {
		return invalid("rate must be between 0 and 100")
	}
	if !tc.Rate.Equal(tc.Rate.Round(4)) {
		return invalid("rate supports at most 4 decimal places")
	}
	if tc.Type != models.TaxTypeSales && tc.Type != models.TaxTypePurchase {
		return invalid("unknown tax type %q", tc.Type)
	}
	if tc.EffectiveTo != nil && tc.EffectiveTo.Before(tc.EffectiveFrom) {
		return invalid("effective_to is before effective_from")
	}

	account, err := tx.Account.FindByID(ctx, tc.TaxAccountID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invalid("tax account %d does not exist", tc.TaxAccountID)
	}
	if err != nil {
		return err
	}
	if account.Type != models.AccountTypeLiability || !account.IsActive {
		return invalid("tax account %s must be an active liability account", account.Code)
	}
	return nil
}
