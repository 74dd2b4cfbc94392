package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ExpenseFilter narrows ListExpenses. Zero values leave the dimension
// unfiltered.
type ExpenseFilter struct {
	StartDate core.Date
	EndDate   core.Date
	Category  string
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	row, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		UserID:      e.UserID,
		AmountCents: e.Amount.Cents,
		Category:    e.Category,
		Description: nullString(e.Description),
		Date:        e.Date.String(),
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", row.ID,
		"user_id", row.UserID,
		"amount_cents", row.AmountCents,
		"category", row.Category,
		"date", row.Date)

	return expenseFromRow(row)
}

func (r *SQLiteRepository) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	row, err := r.queries.CreateIncome(ctx, CreateIncomeParams{
		UserID:      in.UserID,
		AmountCents: in.Amount.Cents,
		Source:      in.Source,
		Description: nullString(in.Description),
		Date:        in.Date.String(),
	})
	if err != nil {
		return core.Income{}, fmt.Errorf("create income: %w", err)
	}

	slog.InfoContext(ctx, "Income saved",
		"id", row.ID,
		"user_id", row.UserID,
		"amount_cents", row.AmountCents,
		"source", row.Source,
		"date", row.Date)

	return incomeFromRow(row)
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID int64, filter ExpenseFilter) ([]core.Expense, error) {
	params := ListExpensesParams{
		UserID:   userID,
		Category: filter.Category,
	}
	if !filter.StartDate.IsZero() {
		params.StartDate = filter.StartDate.String()
	}
	if !filter.EndDate.IsZero() {
		params.EndDate = filter.EndDate.String()
	}

	rows, err := r.queries.ListExpenses(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	expenses := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := expenseFromRow(row)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// StatsByCategory aggregates expenses per category over the trailing
// window of days, today included.
func (r *SQLiteRepository) StatsByCategory(ctx context.Context, userID int64, days int) ([]core.CategoryTotal, error) {
	rows, err := r.queries.SumExpensesByCategory(ctx, userID, sinceDate(days))
	if err != nil {
		return nil, fmt.Errorf("stats by category: %w", err)
	}

	totals := make([]core.CategoryTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, core.CategoryTotal{
			Category: row.Category,
			Total:    core.Money{Cents: row.TotalCents},
			Count:    row.RecordCount,
		})
	}
	return totals, nil
}

func (r *SQLiteRepository) StatsDaily(ctx context.Context, userID int64, days int) ([]core.DailyTotal, error) {
	rows, err := r.queries.SumExpensesByDay(ctx, userID, sinceDate(days))
	if err != nil {
		return nil, fmt.Errorf("stats daily: %w", err)
	}

	totals := make([]core.DailyTotal, 0, len(rows))
	for _, row := range rows {
		date, err := core.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", row.Date, err)
		}
		totals = append(totals, core.DailyTotal{
			Date:  date,
			Total: core.Money{Cents: row.TotalCents},
		})
	}
	return totals, nil
}

func (r *SQLiteRepository) StatsMonthly(ctx context.Context, userID int64) ([]core.MonthlyTotal, error) {
	rows, err := r.queries.SumExpensesByMonth(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats monthly: %w", err)
	}

	totals := make([]core.MonthlyTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, core.MonthlyTotal{
			Year:  int(row.Year),
			Month: int(row.Month),
			Total: core.Money{Cents: row.TotalCents},
		})
	}
	return totals, nil
}

// Summary reports expense totals for today, the trailing 7 days and the
// trailing 30 days.
func (r *SQLiteRepository) Summary(ctx context.Context, userID int64) (core.Summary, error) {
	today, err := r.queries.SumExpensesOn(ctx, userID, core.Today().String())
	if err != nil {
		return core.Summary{}, fmt.Errorf("summary today: %w", err)
	}

	week, err := r.queries.SumExpensesSince(ctx, userID, sinceDate(7))
	if err != nil {
		return core.Summary{}, fmt.Errorf("summary week: %w", err)
	}

	month, err := r.queries.SumExpensesSince(ctx, userID, sinceDate(30))
	if err != nil {
		return core.Summary{}, fmt.Errorf("summary month: %w", err)
	}

	return core.Summary{
		Today: core.Money{Cents: today},
		Week:  core.Money{Cents: week},
		Month: core.Money{Cents: month},
	}, nil
}

func (r *SQLiteRepository) Balance(ctx context.Context, userID int64) (core.Balance, error) {
	income, err := r.queries.TotalIncome(ctx, userID)
	if err != nil {
		return core.Balance{}, fmt.Errorf("total income: %w", err)
	}

	expenses, err := r.queries.TotalExpenses(ctx, userID)
	if err != nil {
		return core.Balance{}, fmt.Errorf("total expenses: %w", err)
	}

	return core.Balance{
		IncomeCents:   income,
		ExpensesCents: expenses,
		BalanceCents:  income - expenses,
	}, nil
}

func (r *SQLiteRepository) Categories(ctx context.Context) ([]string, error) {
	categories, err := r.queries.DistinctCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	return categories, nil
}

func (r *SQLiteRepository) InsertRecordEvent(ctx context.Context, kind string, recordID, userID, amountCents int64, occurredAt time.Time) error {
	err := r.queries.InsertRecordEvent(ctx, InsertRecordEventParams{
		Kind:        kind,
		RecordID:    recordID,
		UserID:      userID,
		AmountCents: amountCents,
		OccurredAt:  occurredAt,
	})
	if err != nil {
		return fmt.Errorf("insert record event: %w", err)
	}

	slog.InfoContext(ctx, "Record event stored",
		"kind", kind,
		"record_id", recordID,
		"user_id", userID)
	return nil
}

// sinceDate returns the inclusive lower bound for a trailing window:
// today minus the given number of days.
func sinceDate(days int) string {
	if days < 0 {
		days = 0
	}
	return core.DateOf(time.Now().UTC().AddDate(0, 0, -days)).String()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expenseFromRow(row ExpenseRow) (core.Expense, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", row.Date, err)
	}
	return core.Expense{
		ID:          row.ID,
		UserID:      row.UserID,
		Amount:      core.Money{Cents: row.AmountCents},
		Category:    row.Category,
		Description: row.Description.String,
		Date:        date,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func incomeFromRow(row IncomeRow) (core.Income, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Income{}, fmt.Errorf("parse stored date %q: %w", row.Date, err)
	}
	return core.Income{
		ID:          row.ID,
		UserID:      row.UserID,
		Amount:      core.Money{Cents: row.AmountCents},
		Source:      row.Source,
		Description: row.Description.String,
		Date:        date,
		CreatedAt:   row.CreatedAt,
	}, nil
}
