package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"github.com/sjperalta/fintera-ledger/pkg/logger"
	"gorm.io/gorm"
)

// CreateAccountInput holds the fields accepted when opening an account
type CreateAccountInput struct {
	Code            string
	Name            string
	Type            models.AccountType
	Subtype         models.AccountSubtype
	ParentID        *uint
	Description     string
	IsSystemAccount bool
}

// UpdateAccountInput holds optional changes; nil fields are left alone.
// ClearParent detaches the account from its parent.
type UpdateAccountInput struct {
	Name        *string
	Description *string
	Subtype     *models.AccountSubtype
	ParentID    *uint
	ClearParent bool
	IsActive    *bool
}

// BalanceDrift is an account whose stored balance disagrees with its entries
type BalanceDrift struct {
	AccountID uint            `json:"account_id"`
	Code      string          `json:"account_code"`
	Stored    decimal.Decimal `json:"stored_balance"`
	Computed  decimal.Decimal `json:"computed_balance"`
}

type AccountService struct {
	repos *repository.Repositories
}

func NewAccountService(repos *repository.Repositories) *AccountService {
	return &AccountService{repos: repos}
}

func (s *AccountService) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	account, err := s.repos.Account.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "account", id)
	}
	return account, nil
}

func (s *AccountService) FindByCode(ctx context.Context, code string) (*models.Account, error) {
	account, err := s.repos.Account.FindByCode(ctx, strings.TrimSpace(code))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrap(ErrNotFound, "account %s not found", code)
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) List(ctx context.Context, query *repository.ListQuery) ([]models.Account, int64, error) {
	return s.repos.Account.List(ctx, query)
}

// Tree returns the whole chart of accounts nested by parent
func (s *AccountService) Tree(ctx context.Context) ([]*models.AccountNode, error) {
	accounts, err := s.repos.Account.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return models.BuildAccountTree(accounts), nil
}

// GetBalance returns the account's current signed balance
func (s *AccountService) GetBalance(ctx context.Context, id uint) (decimal.Decimal, error) {
	account, err := s.FindByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

func (s *AccountService) Create(ctx context.Context, input CreateAccountInput, actor Actor) (*models.Account, error) {
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	if code == "" {
		return nil, invalid("account_code is required")
	}
	if name == "" {
		return nil, invalid("account_name is required")
	}
	if !input.Type.Valid() {
		return nil, invalid("unknown account_type %q", input.Type)
	}
	if !input.Subtype.ValidFor(input.Type) {
		return nil, invalid("account_subtype %q does not apply to %s accounts", input.Subtype, input.Type)
	}

	account := &models.Account{
		Code:            code,
		Name:            name,
		Type:            input.Type,
		Subtype:         input.Subtype,
		ParentID:        input.ParentID,
		Description:     strings.TrimSpace(input.Description),
		IsActive:        true,
		IsSystemAccount: input.IsSystemAccount,
		Balance:         decimal.Zero,
	}

	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Account.FindByCode(ctx, code); err == nil {
			return wrap(ErrDuplicateCode, "account code %s already exists", code)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if input.ParentID != nil {
			if err := checkParent(ctx, tx, 0, *input.ParentID); err != nil {
				return err
			}
		}

		if err := tx.Account.Create(ctx, account); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return wrap(ErrDuplicateCode, "account code %s already exists", code)
			}
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionCreate, "account", account.ID,
			"Created %s account %s %s", account.Type, account.Code, account.Name)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Account created", "account_id", account.ID, "code", account.Code)
	return account, nil
}

func (s *AccountService) Update(ctx context.Context, id uint, input UpdateAccountInput, actor Actor) (*models.Account, error) {
	if input.IsActive != nil && !*input.IsActive {
		if err := s.Deactivate(ctx, id, actor); err != nil {
			return nil, err
		}
	}

	var account *models.Account
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		account, err = tx.Account.FindByID(ctx, id)
		if err != nil {
			return translate(err, "account", id)
		}

		var changes []string
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return invalid("account_name cannot be empty")
			}
			account.Name = name
			changes = append(changes, "name")
		}
		if input.Description != nil {
			account.Description = strings.TrimSpace(*input.Description)
			changes = append(changes, "description")
		}
		if input.Subtype != nil {
			if !input.Subtype.ValidFor(account.Type) {
				return invalid("account_subtype %q does not apply to %s accounts", *input.Subtype, account.Type)
			}
			account.Subtype = *input.Subtype
			changes = append(changes, "subtype")
		}
		switch {
		case input.ClearParent:
			account.ParentID = nil
			changes = append(changes, "parent")
		case input.ParentID != nil:
			if err := checkParent(ctx, tx, account.ID, *input.ParentID); err != nil {
				return err
			}
			parentID := *input.ParentID
			account.ParentID = &parentID
			changes = append(changes, "parent")
		}
		if input.IsActive != nil && *input.IsActive && !account.IsActive {
			account.IsActive = true
			changes = append(changes, "reactivated")
		}

		if len(changes) == 0 {
			return nil
		}
		if err := tx.Account.UpdateDetails(ctx, account); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionUpdate, "account", account.ID,
			"Updated account %s: %s", account.Code, strings.Join(changes, ", "))
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Deactivate hides the account from new entries. Drafts that still use it block the change.
func (s *AccountService) Deactivate(ctx context.Context, id uint, actor Actor) error {
	return s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		account, err := tx.Account.FindByID(ctx, id)
		if err != nil {
			return translate(err, "account", id)
		}
		if !account.IsActive {
			return nil
		}

		inUse, err := tx.Transaction.HasEntriesForAccount(ctx, id, []string{models.TransactionStatusDraft})
		if err != nil {
			return err
		}
		if inUse {
			return wrap(ErrAccountInUse, "account %s has draft transactions", account.Code)
		}

		account.IsActive = false
		if err := tx.Account.UpdateDetails(ctx, account); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionDeactivate, "account", account.ID,
			"Deactivated account %s", account.Code)
	})
}

// checkParent validates that parentID can own accountID: it must exist, be
// active and not be the account itself or one of its descendants.
func checkParent(ctx context.Context, tx *repository.Repositories, accountID, parentID uint) error {
	if accountID != 0 && parentID == accountID {
		return wrap(ErrInvalidParent, "account cannot be its own parent")
	}

	parent, err := tx.Account.FindByID(ctx, parentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return wrap(ErrInvalidParent, "parent account %d does not exist", parentID)
	}
	if err != nil {
		return err
	}
	if !parent.IsActive {
		return wrap(ErrInvalidParent, "parent account %s is inactive", parent.Code)
	}
	if accountID == 0 {
		return nil
	}

	// Walk up from the proposed parent; reaching the account means a cycle.
	seen := map[uint]bool{parent.ID: true}
	for next := parent.ParentID; next != nil; {
		if *next == accountID {
			return wrap(ErrInvalidParent, "reparenting would create a cycle")
		}
		if seen[*next] {
			break
		}
		seen[*next] = true
		ancestor, err := tx.Account.FindByID(ctx, *next)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return err
		}
		next = ancestor.ParentID
	}
	return nil
}

// VerifyBalances recomputes every balance from posted entries and returns the drifted accounts
func (s *AccountService) VerifyBalances(ctx context.Context) ([]BalanceDrift, error) {
	accounts, err := s.repos.Account.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.repos.Transaction.SumByAccount(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	byAccount := make(map[uint]repository.AccountTotals, len(totals))
	for _, t := range totals {
		byAccount[t.AccountID] = t
	}

	drifts := []BalanceDrift{}
	for _, a := range accounts {
		t := byAccount[a.ID]
		computed := amount.Round(a.Type.SignedDelta(t.Debit, t.Credit))
		if !computed.Equal(a.Balance) {
			drifts = append(drifts, BalanceDrift{AccountID: a.ID, Code: a.Code, Stored: a.Balance, Computed: computed})
		}
	}
	return drifts, nil
}

// RepairBalances overwrites drifted balances with their recomputed values
func (s *AccountService) RepairBalances(ctx context.Context, actor Actor) ([]BalanceDrift, error) {
	drifts, err := s.VerifyBalances(ctx)
	if err != nil || len(drifts) == 0 {
		return drifts, err
	}

	err = s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		for _, d := range drifts {
			if err := tx.Account.SetBalance(ctx, d.AccountID, d.Computed); err != nil {
				return err
			}
			if err := audit(ctx, tx, actor, models.AuditActionUpdate, "account", d.AccountID,
				"Repaired balance of %s from %s to %s", d.Code, amount.String(d.Stored), amount.String(d.Computed)); err != nil {
				return err
			}
		}
		return tx.Analytics.InvalidateAll(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("repair balances: %w", err)
	}
	return drifts, nil
}
