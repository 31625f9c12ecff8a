package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"github.com/sjperalta/fintera-ledger/pkg/logger"
)

// DefaultAnalyticsTTL is how long a computed dashboard stays cached
const DefaultAnalyticsTTL = 15 * time.Minute

const (
	topExpenseCount = 5
	maxTrendPoints  = 12
)

var (
	earliestDate = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	latestDate   = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

type AnalyticsService struct {
	repos *repository.Repositories
	ttl   time.Duration
}

func NewAnalyticsService(repos *repository.Repositories, ttl time.Duration) *AnalyticsService {
	if ttl <= 0 {
		ttl = DefaultAnalyticsTTL
	}
	return &AnalyticsService{repos: repos, ttl: ttl}
}

// AnalyticsFilters bounds the reporting window; nil means open-ended
type AnalyticsFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
}

func (f AnalyticsFilters) cacheKey() string {
	key := "accounting_analytics"
	for _, d := range []*time.Time{f.StartDate, f.EndDate} {
		if d != nil {
			key += "_" + models.FormatDate(*d)
		} else {
			key += "_all"
		}
	}
	return key
}

// balances holds signed per-account figures and some derived sums
type balances struct {
	accounts []models.Account
	signed   map[uint]decimal.Decimal
}

func (b balances) total(t models.AccountType) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range b.accounts {
		if a.Type == t {
			sum = sum.Add(b.signed[a.ID])
		}
	}
	return sum
}

func (b balances) subtotal(st models.AccountSubtype) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range b.accounts {
		if a.Subtype == st {
			sum = sum.Add(b.signed[a.ID])
		}
	}
	return sum
}

func (s *AnalyticsService) signedBalances(ctx context.Context, accounts []models.Account, from, to *time.Time) (balances, error) {
	totals, err := s.repos.Transaction.SumByAccount(ctx, from, to, nil)
	if err != nil {
		return balances{}, err
	}
	types := make(map[uint]models.AccountType, len(accounts))
	for _, a := range accounts {
		types[a.ID] = a.Type
	}
	signed := make(map[uint]decimal.Decimal, len(totals))
	for _, t := range totals {
		signed[t.AccountID] = types[t.AccountID].SignedDelta(t.Debit, t.Credit)
	}
	return balances{accounts: accounts, signed: signed}, nil
}

// Overview returns the dashboard, served from cache when fresh
func (s *AnalyticsService) Overview(ctx context.Context, filters AnalyticsFilters) (*models.AccountingAnalytics, error) {
	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return nil, invalid("end_date is before start_date")
	}
	cacheKey := filters.cacheKey()

	// Check cache
	if cached, err := s.repos.Analytics.GetCache(ctx, cacheKey); err == nil && cached != nil {
		var overview models.AccountingAnalytics
		if err := json.Unmarshal(cached.Data, &overview); err == nil {
			return &overview, nil
		}
	}

	generation, err := s.repos.Analytics.Generation(ctx)
	if err != nil {
		return nil, err
	}
	overview, err := s.computeOverview(ctx, filters)
	if err != nil {
		return nil, err
	}

	err = s.repos.Analytics.SetCache(ctx, cacheKey, overview, s.ttl, generation)
	switch {
	case errors.Is(err, repository.ErrStaleVersion):
		logger.FromContext(ctx).Debug("Ledger changed while computing analytics, result not cached", "key", cacheKey)
	case err != nil:
		logger.FromContext(ctx).Warn("Failed to cache analytics", "error", err)
	}
	return overview, nil
}

func (s *AnalyticsService) computeOverview(ctx context.Context, filters AnalyticsFilters) (*models.AccountingAnalytics, error) {
	accounts, err := s.repos.Account.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	// Balance sheet figures are cumulative through the end date,
	// income figures only cover the window.
	position, err := s.signedBalances(ctx, accounts, nil, filters.EndDate)
	if err != nil {
		return nil, err
	}
	activity, err := s.signedBalances(ctx, accounts, filters.StartDate, filters.EndDate)
	if err != nil {
		return nil, err
	}

	assets := position.total(models.AccountTypeAsset)
	liabilities := position.total(models.AccountTypeLiability)
	equity := position.total(models.AccountTypeEquity)
	revenue := activity.total(models.AccountTypeRevenue)
	expenses := activity.total(models.AccountTypeExpense)
	netIncome := revenue.Sub(expenses)
	grossProfit := revenue.Sub(activity.subtotal(models.SubtypeCostOfSales))

	currentAssets := position.subtotal(models.SubtypeCurrentAsset)
	inventory := position.subtotal(models.SubtypeInventory)
	currentLiabilities := position.subtotal(models.SubtypeCurrentLiability)

	trends, err := s.trends(ctx, accounts, filters)
	if err != nil {
		return nil, err
	}

	overview := &models.AccountingAnalytics{
		Currency:         amount.Ledger().Code,
		StartDate:        models.FormatDatePtr(filters.StartDate),
		EndDate:          models.FormatDatePtr(filters.EndDate),
		TotalAssets:      amount.String(assets),
		TotalLiabilities: amount.String(liabilities),
		TotalEquity:      amount.String(equity),
		TotalRevenue:     amount.String(revenue),
		TotalExpenses:    amount.String(expenses),
		NetIncome:        amount.String(netIncome),
		GrossProfit:      amount.String(grossProfit),
		OperatingProfit:  amount.String(netIncome),
		Ratios: models.FinancialRatios{
			CurrentRatio:      amount.Ratio(currentAssets.Add(inventory), currentLiabilities),
			QuickRatio:        amount.Ratio(currentAssets, currentLiabilities),
			DebtToEquityRatio: amount.Ratio(liabilities, equity),
			ReturnOnAssets:    amount.Ratio(netIncome, assets),
			ReturnOnEquity:    amount.Ratio(netIncome, equity),
		},
		MonthlyTrends:   trends,
		AccountBalances: []models.AccountBalance{},
		TopExpenses:     topExpenses(activity, expenses),
		GeneratedAt:     time.Now().UTC(),
	}

	for _, a := range accounts {
		figure := position
		if !a.Type.BalanceSheet() {
			figure = activity
		}
		overview.AccountBalances = append(overview.AccountBalances, accountBalance(a, figure.signed[a.ID]))
	}
	return overview, nil
}

func accountBalance(a models.Account, balance decimal.Decimal) models.AccountBalance {
	return models.AccountBalance{
		AccountID:   a.ID,
		AccountCode: a.Code,
		AccountName: a.Name,
		AccountType: a.Type,
		Subtype:     a.Subtype,
		Balance:     amount.String(balance),
	}
}

func topExpenses(activity balances, total decimal.Decimal) []models.ExpenseShare {
	type share struct {
		account models.Account
		amount  decimal.Decimal
	}
	var shares []share
	for _, a := range activity.accounts {
		if a.Type != models.AccountTypeExpense {
			continue
		}
		if v := activity.signed[a.ID]; v.IsPositive() {
			shares = append(shares, share{account: a, amount: v})
		}
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].amount.GreaterThan(shares[j].amount) })
	if len(shares) > topExpenseCount {
		shares = shares[:topExpenseCount]
	}

	out := make([]models.ExpenseShare, 0, len(shares))
	for _, sh := range shares {
		out = append(out, models.ExpenseShare{
			AccountID:   sh.account.ID,
			AccountName: sh.account.Name,
			Amount:      amount.String(sh.amount),
			Percentage:  amount.Percent(sh.amount, total).StringFixed(2),
		})
	}
	return out
}

// trends reports revenue and expenses per fiscal period inside the window.
// Without a window the most recent periods are used.
func (s *AnalyticsService) trends(ctx context.Context, accounts []models.Account, filters AnalyticsFilters) ([]models.TrendPoint, error) {
	from, to := earliestDate, latestDate
	if filters.StartDate != nil {
		from = *filters.StartDate
	}
	if filters.EndDate != nil {
		to = *filters.EndDate
	}
	periods, err := s.repos.Period.FindInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if filters.StartDate == nil && len(periods) > maxTrendPoints {
		periods = periods[len(periods)-maxTrendPoints:]
	}

	ids := make([]uint, 0, len(periods))
	for _, p := range periods {
		ids = append(ids, p.ID)
	}
	totals, err := s.repos.Transaction.SumByPeriod(ctx, ids)
	if err != nil {
		return nil, err
	}

	types := make(map[uint]models.AccountType, len(accounts))
	for _, a := range accounts {
		types[a.ID] = a.Type
	}
	revenue := make(map[uint]decimal.Decimal)
	expense := make(map[uint]decimal.Decimal)
	for _, t := range totals {
		switch typ := types[t.AccountID]; typ {
		case models.AccountTypeRevenue:
			revenue[t.FiscalPeriodID] = revenue[t.FiscalPeriodID].Add(typ.SignedDelta(t.Debit, t.Credit))
		case models.AccountTypeExpense:
			expense[t.FiscalPeriodID] = expense[t.FiscalPeriodID].Add(typ.SignedDelta(t.Debit, t.Credit))
		}
	}

	points := make([]models.TrendPoint, 0, len(periods))
	for _, p := range periods {
		points = append(points, models.TrendPoint{
			Month:          p.StartDate.Format("2006-01"),
			FiscalPeriodID: p.ID,
			Revenue:        amount.String(revenue[p.ID]),
			Expenses:       amount.String(expense[p.ID]),
			NetIncome:      amount.String(revenue[p.ID].Sub(expense[p.ID])),
		})
	}
	return points, nil
}

// BalanceSheet reports the financial position at asOf. Unclosed revenue and
// expense are shown as current earnings on the equity side.
func (s *AnalyticsService) BalanceSheet(ctx context.Context, asOf time.Time) (*models.BalanceSheet, error) {
	asOf = models.Date(asOf)
	accounts, err := s.repos.Account.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	position, err := s.signedBalances(ctx, accounts, nil, &asOf)
	if err != nil {
		return nil, err
	}

	assets := reportSection(position, models.AccountTypeAsset)
	liabilities := reportSection(position, models.AccountTypeLiability)
	equity := reportSection(position, models.AccountTypeEquity)

	earnings := position.total(models.AccountTypeRevenue).Sub(position.total(models.AccountTypeExpense))
	totalAssets := position.total(models.AccountTypeAsset)
	totalClaims := position.total(models.AccountTypeLiability).Add(position.total(models.AccountTypeEquity)).Add(earnings)

	return &models.BalanceSheet{
		AsOfDate:                  models.FormatDate(asOf),
		Assets:                    assets,
		Liabilities:               liabilities,
		Equity:                    equity,
		CurrentEarnings:           amount.String(earnings),
		TotalLiabilitiesAndEquity: amount.String(totalClaims),
		Balanced:                  totalAssets.Equal(totalClaims),
	}, nil
}

// IncomeStatement reports revenue and expenses between start and end inclusive
func (s *AnalyticsService) IncomeStatement(ctx context.Context, start, end time.Time) (*models.IncomeStatement, error) {
	start, end = models.Date(start), models.Date(end)
	if end.Before(start) {
		return nil, invalid("end_date is before start_date")
	}
	accounts, err := s.repos.Account.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := s.signedBalances(ctx, accounts, &start, &end)
	if err != nil {
		return nil, err
	}

	revenue := activity.total(models.AccountTypeRevenue)
	expenses := activity.total(models.AccountTypeExpense)
	return &models.IncomeStatement{
		StartDate:   models.FormatDate(start),
		EndDate:     models.FormatDate(end),
		Revenue:     reportSection(activity, models.AccountTypeRevenue),
		Expenses:    reportSection(activity, models.AccountTypeExpense),
		GrossProfit: amount.String(revenue.Sub(activity.subtotal(models.SubtypeCostOfSales))),
		NetIncome:   amount.String(revenue.Sub(expenses)),
	}, nil
}

// TrialBalance lists every account with activity in its natural column
func (s *AnalyticsService) TrialBalance(ctx context.Context, asOf time.Time) (*models.TrialBalance, error) {
	asOf = models.Date(asOf)
	accounts, err := s.repos.Account.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.repos.Transaction.SumByAccount(ctx, nil, &asOf, nil)
	if err != nil {
		return nil, err
	}
	byAccount := make(map[uint]repository.AccountTotals, len(totals))
	for _, t := range totals {
		byAccount[t.AccountID] = t
	}

	tb := &models.TrialBalance{AsOfDate: models.FormatDate(asOf), Lines: []models.TrialBalanceLine{}}
	debitTotal, creditTotal := decimal.Zero, decimal.Zero
	for _, a := range accounts {
		t, ok := byAccount[a.ID]
		if !ok {
			continue
		}
		net := t.Debit.Sub(t.Credit)
		debit, credit := decimal.Zero, decimal.Zero
		if net.IsPositive() {
			debit = net
		} else {
			credit = net.Neg()
		}
		debitTotal = debitTotal.Add(debit)
		creditTotal = creditTotal.Add(credit)
		tb.Lines = append(tb.Lines, models.TrialBalanceLine{
			AccountID:   a.ID,
			AccountCode: a.Code,
			AccountName: a.Name,
			AccountType: a.Type,
			Debit:       amount.String(debit),
			Credit:      amount.String(credit),
		})
	}
	tb.TotalDebit = amount.String(debitTotal)
	tb.TotalCredit = amount.String(creditTotal)
	tb.Balanced = debitTotal.Equal(creditTotal)
	return tb, nil
}

func reportSection(b balances, t models.AccountType) models.ReportSection {
	section := models.ReportSection{Accounts: []models.AccountBalance{}}
	total := decimal.Zero
	for _, a := range b.accounts {
		if a.Type != t {
			continue
		}
		v := b.signed[a.ID]
		if v.IsZero() && !a.IsActive {
			continue
		}
		section.Accounts = append(section.Accounts, accountBalance(a, v))
		total = total.Add(v)
	}
	section.Total = amount.String(total)
	return section
}

// CleanCache removes expired cache rows
func (s *AnalyticsService) CleanCache(ctx context.Context) error {
	removed, err := s.repos.Analytics.CleanExpiredCache(ctx)
	if err != nil {
		return fmt.Errorf("clean analytics cache: %w", err)
	}
	if removed > 0 {
		logger.Info("[AnalyticsService] Removed expired cache entries", "count", removed)
	}
	return nil
}
