package storage

import (
	"context"
	"database/sql"
	"time"
)

// Queries is the hand-written query layer over the records schema.
// Dates travel as ISO "YYYY-MM-DD" strings so range filters reduce to
// lexicographic comparison.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type (
	ExpenseRow struct {
		ID          int64
		UserID      int64
		AmountCents int64
		Category    string
		Description sql.NullString
		Date        string
		CreatedAt   time.Time
	}

	IncomeRow struct {
		ID          int64
		UserID      int64
		AmountCents int64
		Source      string
		Description sql.NullString
		Date        string
		CreatedAt   time.Time
	}

	CreateExpenseParams struct {
		UserID      int64
		AmountCents int64
		Category    string
		Description sql.NullString
		Date        string
	}

	CreateIncomeParams struct {
		UserID      int64
		AmountCents int64
		Source      string
		Description sql.NullString
		Date        string
	}

	ListExpensesParams struct {
		UserID    int64
		StartDate string // inclusive, empty = unbounded
		EndDate   string // inclusive, empty = unbounded
		Category  string // empty = all categories
	}

	CategorySumRow struct {
		Category    string
		TotalCents  int64
		RecordCount int64
	}

	DailySumRow struct {
		Date       string
		TotalCents int64
	}

	MonthlySumRow struct {
		Year       int64
		Month      int64
		TotalCents int64
	}

	InsertRecordEventParams struct {
		Kind        string
		RecordID    int64
		UserID      int64
		AmountCents int64
		OccurredAt  time.Time
	}
)

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (ExpenseRow, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO expenses (user_id, amount_cents, category, description, date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, user_id, amount_cents, category, description, date, created_at`,
		arg.UserID, arg.AmountCents, arg.Category, arg.Description, arg.Date)

	var e ExpenseRow
	err := row.Scan(&e.ID, &e.UserID, &e.AmountCents, &e.Category, &e.Description, &e.Date, &e.CreatedAt)
	return e, err
}

func (q *Queries) CreateIncome(ctx context.Context, arg CreateIncomeParams) (IncomeRow, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO income (user_id, amount_cents, source, description, date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, user_id, amount_cents, source, description, date, created_at`,
		arg.UserID, arg.AmountCents, arg.Source, arg.Description, arg.Date)

	var i IncomeRow
	err := row.Scan(&i.ID, &i.UserID, &i.AmountCents, &i.Source, &i.Description, &i.Date, &i.CreatedAt)
	return i, err
}

func (q *Queries) ListExpenses(ctx context.Context, arg ListExpensesParams) ([]ExpenseRow, error) {
	query := `SELECT id, user_id, amount_cents, category, description, date, created_at
		FROM expenses WHERE user_id = ?`
	args := []any{arg.UserID}

	if arg.StartDate != "" {
		query += " AND date >= ?"
		args = append(args, arg.StartDate)
	}
	if arg.EndDate != "" {
		query += " AND date <= ?"
		args = append(args, arg.EndDate)
	}
	if arg.Category != "" {
		query += " AND category = ?"
		args = append(args, arg.Category)
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpenseRow
	for rows.Next() {
		var e ExpenseRow
		if err := rows.Scan(&e.ID, &e.UserID, &e.AmountCents, &e.Category, &e.Description, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (q *Queries) SumExpensesByCategory(ctx context.Context, userID int64, since string) ([]CategorySumRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT category, SUM(amount_cents), COUNT(id)
		FROM expenses
		WHERE user_id = ? AND date >= ?
		GROUP BY category
		ORDER BY SUM(amount_cents) DESC`,
		userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategorySumRow
	for rows.Next() {
		var r CategorySumRow
		if err := rows.Scan(&r.Category, &r.TotalCents, &r.RecordCount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) SumExpensesByDay(ctx context.Context, userID int64, since string) ([]DailySumRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT date, SUM(amount_cents)
		FROM expenses
		WHERE user_id = ? AND date >= ?
		GROUP BY date
		ORDER BY date`,
		userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailySumRow
	for rows.Next() {
		var r DailySumRow
		if err := rows.Scan(&r.Date, &r.TotalCents); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) SumExpensesByMonth(ctx context.Context, userID int64) ([]MonthlySumRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT CAST(substr(date, 1, 4) AS INTEGER) AS year,
		       CAST(substr(date, 6, 2) AS INTEGER) AS month,
		       SUM(amount_cents)
		FROM expenses
		WHERE user_id = ?
		GROUP BY year, month
		ORDER BY year, month`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthlySumRow
	for rows.Next() {
		var r MonthlySumRow
		if err := rows.Scan(&r.Year, &r.Month, &r.TotalCents); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) SumExpensesOn(ctx context.Context, userID int64, date string) (int64, error) {
	var total sql.NullInt64
	err := q.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM expenses WHERE user_id = ? AND date = ?`,
		userID, date).Scan(&total)
	return total.Int64, err
}

func (q *Queries) SumExpensesSince(ctx context.Context, userID int64, since string) (int64, error) {
	var total sql.NullInt64
	err := q.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM expenses WHERE user_id = ? AND date >= ?`,
		userID, since).Scan(&total)
	return total.Int64, err
}

func (q *Queries) TotalExpenses(ctx context.Context, userID int64) (int64, error) {
	var total sql.NullInt64
	err := q.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM expenses WHERE user_id = ?`,
		userID).Scan(&total)
	return total.Int64, err
}

func (q *Queries) TotalIncome(ctx context.Context, userID int64) (int64, error) {
	var total sql.NullInt64
	err := q.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM income WHERE user_id = ?`,
		userID).Scan(&total)
	return total.Int64, err
}

func (q *Queries) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM expenses ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q *Queries) InsertRecordEvent(ctx context.Context, arg InsertRecordEventParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO record_events (kind, record_id, user_id, amount_cents, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		arg.Kind, arg.RecordID, arg.UserID, arg.AmountCents, arg.OccurredAt.UTC())
	return err
}
