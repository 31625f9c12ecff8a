package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type analyticsFixture struct {
	repos   *repository.Repositories
	ledger  *LedgerService
	cash    *models.Account
	payable *models.Account
	equity  *models.Account
	revenue *models.Account
	expense *models.Account
}

// newAnalyticsFixture books capital 1000, sales 500 in January and a 200 expense in February
func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()
	repos := setupRepos(t)
	createMonth(t, repos, 2026, time.January)
	createMonth(t, repos, 2026, time.February)
	f := &analyticsFixture{
		repos:   repos,
		ledger:  NewLedgerService(repos),
		cash:    createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeCurrentAsset),
		payable: createAccount(t, repos, "2000", models.AccountTypeLiability, models.SubtypeCurrentLiability),
		equity:  createAccount(t, repos, "3000", models.AccountTypeEquity, models.SubtypeNone),
		revenue: createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone),
		expense: createAccount(t, repos, "6000", models.AccountTypeExpense, models.SubtypeOperatingExpense),
	}
	postSimple(t, f.ledger, day(2026, 1, 2), f.cash.ID, f.equity.ID, "1000")
	postSimple(t, f.ledger, day(2026, 1, 15), f.cash.ID, f.revenue.ID, "500")
	postSimple(t, f.ledger, day(2026, 2, 10), f.expense.ID, f.payable.ID, "200")
	return f
}

func TestAnalytics_Overview(t *testing.T) {
	f := newAnalyticsFixture(t)
	svc := NewAnalyticsService(f.repos, time.Minute)

	overview, err := svc.Overview(context.Background(), AnalyticsFilters{})
	require.NoError(t, err)

	assert.Equal(t, "1500.00", overview.TotalAssets)
	assert.Equal(t, "200.00", overview.TotalLiabilities)
	assert.Equal(t, "1000.00", overview.TotalEquity)
	assert.Equal(t, "500.00", overview.TotalRevenue)
	assert.Equal(t, "200.00", overview.TotalExpenses)
	assert.Equal(t, "300.00", overview.NetIncome)

	require.NotNil(t, overview.Ratios.CurrentRatio)
	assert.True(t, overview.Ratios.CurrentRatio.Equal(dec("7.5")))
	require.NotNil(t, overview.Ratios.DebtToEquityRatio)
	assert.True(t, overview.Ratios.DebtToEquityRatio.Equal(dec("0.2")))
	require.NotNil(t, overview.Ratios.ReturnOnAssets)
	assert.True(t, overview.Ratios.ReturnOnAssets.Equal(dec("0.2")))

	require.Len(t, overview.MonthlyTrends, 2)
	assert.Equal(t, "2026-01", overview.MonthlyTrends[0].Month)
	assert.Equal(t, "500.00", overview.MonthlyTrends[0].Revenue)
	assert.Equal(t, "200.00", overview.MonthlyTrends[1].Expenses)
	assert.Equal(t, "-200.00", overview.MonthlyTrends[1].NetIncome)

	require.Len(t, overview.TopExpenses, 1)
	assert.Equal(t, "100.00", overview.TopExpenses[0].Percentage)
	assert.Len(t, overview.AccountBalances, 5)
}

func TestAnalytics_WindowedActivity(t *testing.T) {
	f := newAnalyticsFixture(t)
	svc := NewAnalyticsService(f.repos, time.Minute)
	start, end := day(2026, 2, 1), day(2026, 2, 28)

	overview, err := svc.Overview(context.Background(), AnalyticsFilters{StartDate: &start, EndDate: &end})
	require.NoError(t, err)

	assert.Equal(t, "0.00", overview.TotalRevenue)
	assert.Equal(t, "200.00", overview.TotalExpenses)
	assert.Equal(t, "1500.00", overview.TotalAssets)
	require.Len(t, overview.MonthlyTrends, 1)

	_, err = svc.Overview(context.Background(), AnalyticsFilters{StartDate: &end, EndDate: &start})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAnalytics_ZeroDenominatorsAreNil(t *testing.T) {
	repos := setupRepos(t)
	svc := NewAnalyticsService(repos, time.Minute)

	overview, err := svc.Overview(context.Background(), AnalyticsFilters{})
	require.NoError(t, err)
	assert.Nil(t, overview.Ratios.CurrentRatio)
	assert.Nil(t, overview.Ratios.QuickRatio)
	assert.Nil(t, overview.Ratios.DebtToEquityRatio)
	assert.Nil(t, overview.Ratios.ReturnOnAssets)
	assert.Nil(t, overview.Ratios.ReturnOnEquity)
	assert.Empty(t, overview.TopExpenses)
}

func TestAnalytics_CacheInvalidatedByPosting(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()
	svc := NewAnalyticsService(f.repos, time.Hour)

	first, err := svc.Overview(ctx, AnalyticsFilters{})
	require.NoError(t, err)
	cached, err := f.repos.Analytics.GetCache(ctx, AnalyticsFilters{}.cacheKey())
	require.NoError(t, err)
	require.NotNil(t, cached)

	postSimple(t, f.ledger, day(2026, 2, 12), f.cash.ID, f.revenue.ID, "50")

	second, err := svc.Overview(ctx, AnalyticsFilters{})
	require.NoError(t, err)
	assert.Equal(t, "500.00", first.TotalRevenue)
	assert.Equal(t, "550.00", second.TotalRevenue)
}

func TestAnalytics_Reports(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()
	svc := NewAnalyticsService(f.repos, time.Minute)

	bs, err := svc.BalanceSheet(ctx, day(2026, 2, 28))
	require.NoError(t, err)
	assert.Equal(t, "1500.00", bs.Assets.Total)
	assert.Equal(t, "200.00", bs.Liabilities.Total)
	assert.Equal(t, "300.00", bs.CurrentEarnings)
	assert.Equal(t, "1500.00", bs.TotalLiabilitiesAndEquity)
	assert.True(t, bs.Balanced)

	bs, err = svc.BalanceSheet(ctx, day(2026, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, "1000.00", bs.Assets.Total)

	is, err := svc.IncomeStatement(ctx, day(2026, 1, 1), day(2026, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, "500.00", is.Revenue.Total)
	assert.Equal(t, "0.00", is.Expenses.Total)
	assert.Equal(t, "500.00", is.NetIncome)

	_, err = svc.IncomeStatement(ctx, day(2026, 2, 1), day(2026, 1, 1))
	assert.ErrorIs(t, err, ErrValidation)

	tb, err := svc.TrialBalance(ctx, day(2026, 12, 31))
	require.NoError(t, err)
	assert.Len(t, tb.Lines, 5)
	assert.Equal(t, "1700.00", tb.TotalDebit)
	assert.Equal(t, "1700.00", tb.TotalCredit)
	assert.True(t, tb.Balanced)
}

func TestAnalytics_OverviewNotCachedWhenLedgerMovesMidCompute(t *testing.T) {
	repos, db := setupReposWithDB(t)
	ctx := context.Background()
	createMonth(t, repos, 2026, time.January)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeCurrentAsset)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)
	postSimple(t, NewLedgerService(repos), day(2026, 1, 5), cash.ID, revenue.ID, "300")

	// a posting commits its invalidation while the dashboard is being computed
	var fired atomic.Bool
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("analytics_test:concurrent_posting", func(d *gorm.DB) {
		if d.Statement.Table == "accounts" && fired.CompareAndSwap(false, true) {
			_ = d.AddError(repos.Analytics.InvalidateAll(d.Statement.Context))
		}
	}))

	svc := NewAnalyticsService(repos, time.Hour)
	overview, err := svc.Overview(ctx, AnalyticsFilters{})
	require.NoError(t, err)
	require.True(t, fired.Load())
	assert.Equal(t, "300.00", overview.TotalRevenue)

	_, err = repos.Analytics.GetCache(ctx, AnalyticsFilters{}.cacheKey())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// nothing moves during the next computation, so it is cached
	_, err = svc.Overview(ctx, AnalyticsFilters{})
	require.NoError(t, err)
	_, err = repos.Analytics.GetCache(ctx, AnalyticsFilters{}.cacheKey())
	assert.NoError(t, err)
}
