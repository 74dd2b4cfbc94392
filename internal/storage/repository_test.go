package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()

	d, err := core.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestCreateExpense(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	saved, err := repo.CreateExpense(ctx, core.Expense{
		UserID:      42,
		Amount:      core.Money{Cents: 1250},
		Category:    "Food",
		Description: "lunch",
		Date:        mustDate(t, "2026-08-30"),
	})
	require.NoError(t, err)

	assert.NotZero(t, saved.ID)
	assert.Equal(t, int64(42), saved.UserID)
	assert.Equal(t, int64(1250), saved.Amount.Cents)
	assert.Equal(t, "Food", saved.Category)
	assert.Equal(t, "lunch", saved.Description)
	assert.Equal(t, "2026-08-30", saved.Date.String())
	assert.False(t, saved.CreatedAt.IsZero())
}

func TestCreateExpenseEmptyDescription(t *testing.T) {
	repo := newTestRepository(t)

	saved, err := repo.CreateExpense(context.Background(), core.Expense{
		UserID:   1,
		Amount:   core.Money{Cents: 500},
		Category: "Transport",
		Date:     mustDate(t, "2026-08-30"),
	})
	require.NoError(t, err)
	assert.Empty(t, saved.Description)
}

func TestCreateExpenseRejectsNonPositiveAmount(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.CreateExpense(context.Background(), core.Expense{
		UserID:   1,
		Amount:   core.Money{Cents: 0},
		Category: "Food",
		Date:     mustDate(t, "2026-08-30"),
	})
	assert.Error(t, err, "CHECK constraint should reject zero amounts")
}

func TestCreateIncome(t *testing.T) {
	repo := newTestRepository(t)

	saved, err := repo.CreateIncome(context.Background(), core.Income{
		UserID: 42,
		Amount: core.Money{Cents: 250000},
		Source: "Salary",
		Date:   mustDate(t, "2026-08-01"),
	})
	require.NoError(t, err)

	assert.NotZero(t, saved.ID)
	assert.Equal(t, "Salary", saved.Source)
	assert.Equal(t, int64(250000), saved.Amount.Cents)
}

func TestListExpensesFilters(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seed := []struct {
		userID   int64
		cents    int64
		category string
		date     string
	}{
		{1, 100, "Food", "2026-08-01"},
		{1, 200, "Food", "2026-08-15"},
		{1, 300, "Transport", "2026-08-20"},
		{2, 999, "Food", "2026-08-15"},
	}
	for _, s := range seed {
		_, err := repo.CreateExpense(ctx, core.Expense{
			UserID:   s.userID,
			Amount:   core.Money{Cents: s.cents},
			Category: s.category,
			Date:     mustDate(t, s.date),
		})
		require.NoError(t, err)
	}

	t.Run("by user only", func(t *testing.T) {
		got, err := repo.ListExpenses(ctx, 1, ExpenseFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("newest first", func(t *testing.T) {
		got, err := repo.ListExpenses(ctx, 1, ExpenseFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "2026-08-20", got[0].Date.String())
		assert.Equal(t, "2026-08-01", got[2].Date.String())
	})

	t.Run("date range", func(t *testing.T) {
		got, err := repo.ListExpenses(ctx, 1, ExpenseFilter{
			StartDate: mustDate(t, "2026-08-10"),
			EndDate:   mustDate(t, "2026-08-18"),
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(200), got[0].Amount.Cents)
	})

	t.Run("category", func(t *testing.T) {
		got, err := repo.ListExpenses(ctx, 1, ExpenseFilter{Category: "Transport"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(300), got[0].Amount.Cents)
	})

	t.Run("no matches", func(t *testing.T) {
		got, err := repo.ListExpenses(ctx, 99, ExpenseFilter{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestStatsByCategory(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	today := core.Today()
	old := core.DateOf(today.AddDate(0, 0, -60))

	for _, e := range []core.Expense{
		{UserID: 1, Amount: core.Money{Cents: 1000}, Category: "Food", Date: today},
		{UserID: 1, Amount: core.Money{Cents: 500}, Category: "Food", Date: today},
		{UserID: 1, Amount: core.Money{Cents: 700}, Category: "Transport", Date: today},
		{UserID: 1, Amount: core.Money{Cents: 9999}, Category: "Food", Date: old},
	} {
		_, err := repo.CreateExpense(ctx, e)
		require.NoError(t, err)
	}

	got, err := repo.StatsByCategory(ctx, 1, 30)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Sorted by total descending.
	assert.Equal(t, "Food", got[0].Category)
	assert.Equal(t, int64(1500), got[0].Total.Cents)
	assert.Equal(t, int64(2), got[0].Count)
	assert.Equal(t, "Transport", got[1].Category)
	assert.Equal(t, int64(700), got[1].Total.Cents)
}

func TestStatsDaily(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	today := core.Today()
	yesterday := core.DateOf(today.AddDate(0, 0, -1))

	for _, e := range []core.Expense{
		{UserID: 1, Amount: core.Money{Cents: 100}, Category: "Food", Date: yesterday},
		{UserID: 1, Amount: core.Money{Cents: 200}, Category: "Food", Date: today},
		{UserID: 1, Amount: core.Money{Cents: 300}, Category: "Other", Date: today},
	} {
		_, err := repo.CreateExpense(ctx, e)
		require.NoError(t, err)
	}

	got, err := repo.StatsDaily(ctx, 1, 7)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, yesterday.String(), got[0].Date.String())
	assert.Equal(t, int64(100), got[0].Total.Cents)
	assert.Equal(t, today.String(), got[1].Date.String())
	assert.Equal(t, int64(500), got[1].Total.Cents)
}

func TestStatsMonthly(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, e := range []core.Expense{
		{UserID: 1, Amount: core.Money{Cents: 100}, Category: "Food", Date: mustDate(t, "2026-07-10")},
		{UserID: 1, Amount: core.Money{Cents: 200}, Category: "Food", Date: mustDate(t, "2026-07-20")},
		{UserID: 1, Amount: core.Money{Cents: 400}, Category: "Food", Date: mustDate(t, "2026-08-05")},
	} {
		_, err := repo.CreateExpense(ctx, e)
		require.NoError(t, err)
	}

	got, err := repo.StatsMonthly(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 2026, got[0].Year)
	assert.Equal(t, 7, got[0].Month)
	assert.Equal(t, int64(300), got[0].Total.Cents)
	assert.Equal(t, 8, got[1].Month)
	assert.Equal(t, int64(400), got[1].Total.Cents)
}

func TestSummary(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	today := core.Today()
	fiveDaysAgo := core.DateOf(today.AddDate(0, 0, -5))
	twentyDaysAgo := core.DateOf(today.AddDate(0, 0, -20))

	for _, e := range []core.Expense{
		{UserID: 1, Amount: core.Money{Cents: 100}, Category: "Food", Date: today},
		{UserID: 1, Amount: core.Money{Cents: 200}, Category: "Food", Date: fiveDaysAgo},
		{UserID: 1, Amount: core.Money{Cents: 400}, Category: "Food", Date: twentyDaysAgo},
	} {
		_, err := repo.CreateExpense(ctx, e)
		require.NoError(t, err)
	}

	got, err := repo.Summary(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(100), got.Today.Cents)
	assert.Equal(t, int64(300), got.Week.Cents)
	assert.Equal(t, int64(700), got.Month.Cents)
}

func TestSummaryEmpty(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.Summary(context.Background(), 1)
	require.NoError(t, err)

	assert.Zero(t, got.Today.Cents)
	assert.Zero(t, got.Week.Cents)
	assert.Zero(t, got.Month.Cents)
}

func TestBalance(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.CreateIncome(ctx, core.Income{
		UserID: 1, Amount: core.Money{Cents: 5000}, Source: "Salary", Date: core.Today(),
	})
	require.NoError(t, err)

	_, err = repo.CreateExpense(ctx, core.Expense{
		UserID: 1, Amount: core.Money{Cents: 7000}, Category: "Rent", Date: core.Today(),
	})
	require.NoError(t, err)

	got, err := repo.Balance(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(5000), got.IncomeCents)
	assert.Equal(t, int64(7000), got.ExpensesCents)
	assert.Equal(t, int64(-2000), got.BalanceCents)
}

func TestCategories(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, cat := range []string{"Food", "Transport", "Food"} {
		_, err := repo.CreateExpense(ctx, core.Expense{
			UserID: 1, Amount: core.Money{Cents: 100}, Category: cat, Date: core.Today(),
		})
		require.NoError(t, err)
	}

	got, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Transport"}, got)
}

func TestInsertRecordEvent(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.InsertRecordEvent(context.Background(), "expense", 7, 42, 1250, time.Now())
	require.NoError(t, err)
}
