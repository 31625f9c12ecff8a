// Package seed loads a chart of accounts from YAML and applies it to the
// ledger. Applying is idempotent: accounts whose code already exists are kept.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/services"
	"github.com/sjperalta/fintera-ledger/pkg/logger"
	"gopkg.in/yaml.v3"
)

//go:embed default_chart.yaml
var defaultChart []byte

// Chart is a chart-of-accounts document
type Chart struct {
	Accounts []ChartAccount `yaml:"accounts"`
}

// ChartAccount is one account and its children. Type and subtype default to
// the parent's values when omitted.
type ChartAccount struct {
	Code        string         `yaml:"code"`
	Name        string         `yaml:"name"`
	Type        string         `yaml:"type"`
	Subtype     string         `yaml:"subtype"`
	Description string         `yaml:"description"`
	System      bool           `yaml:"system"`
	Children    []ChartAccount `yaml:"children"`
}

// Result counts what Apply did
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Load parses a chart document
func Load(data []byte) (*Chart, error) {
	chart := &Chart{}
	if err := yaml.Unmarshal(data, chart); err != nil {
		return nil, fmt.Errorf("parse chart of accounts: %w", err)
	}
	if len(chart.Accounts) == 0 {
		return nil, errors.New("chart of accounts has no accounts")
	}
	return chart, nil
}

// LoadFile reads and parses a chart document from disk
func LoadFile(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chart of accounts: %w", err)
	}
	return Load(data)
}

// Default returns the embedded chart of accounts
func Default() *Chart {
	chart, err := Load(defaultChart)
	if err != nil {
		panic(err)
	}
	return chart
}

// Apply creates every account of the chart that does not exist yet, parents
// before children
func Apply(ctx context.Context, accounts *services.AccountService, chart *Chart, actor services.Actor) (Result, error) {
	var res Result
	for _, acc := range chart.Accounts {
		if err := apply(ctx, accounts, acc, nil, "", "", actor, &res); err != nil {
			return res, err
		}
	}
	logger.Info("Chart of accounts applied", "created", res.Created, "skipped", res.Skipped)
	return res, nil
}

func apply(ctx context.Context, accounts *services.AccountService, acc ChartAccount, parentID *uint, parentType, parentSubtype string, actor services.Actor, res *Result) error {
	typ := acc.Type
	if typ == "" {
		typ = parentType
	}
	subtype := acc.Subtype
	if subtype == "" && acc.Type == "" {
		subtype = parentSubtype
	}

	account, err := accounts.FindByCode(ctx, acc.Code)
	switch {
	case err == nil:
		res.Skipped++
	case errors.Is(err, services.ErrNotFound):
		account, err = accounts.Create(ctx, services.CreateAccountInput{
			Code:            acc.Code,
			Name:            acc.Name,
			Type:            models.AccountType(typ),
			Subtype:         models.AccountSubtype(subtype),
			ParentID:        parentID,
			Description:     acc.Description,
			IsSystemAccount: acc.System,
		}, actor)
		if err != nil {
			return fmt.Errorf("account %s: %w", acc.Code, err)
		}
		res.Created++
	default:
		return err
	}

	for _, child := range acc.Children {
		if err := apply(ctx, accounts, child, &account.ID, string(account.Type), string(account.Subtype), actor, res); err != nil {
			return err
		}
	}
	return nil
}

// OpenYear opens the twelve calendar months of year as fiscal periods.
// Months that are already covered are skipped.
func OpenYear(ctx context.Context, periods *services.PeriodService, year int, actor services.Actor) (Result, error) {
	var res Result
	for month := time.January; month <= time.December; month++ {
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		_, err := periods.Create(ctx, services.CreatePeriodInput{
			Name:         fmt.Sprintf("%s %d", month, year),
			FiscalYear:   year,
			PeriodNumber: int(month),
			StartDate:    start,
			EndDate:      start.AddDate(0, 1, -1),
		}, actor)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, services.ErrPeriodOverlap), errors.Is(err, services.ErrDuplicate):
			res.Skipped++
		default:
			return res, fmt.Errorf("period %d-%02d: %w", year, month, err)
		}
	}
	return res, nil
}
