package core

// CategoryTotal is the 30-day style per-category aggregate: total spend and
// record count for one category.
type CategoryTotal struct {
	Category string
	Total    Money
	Count    int64
}

// DailyTotal is the spend total for one calendar day.
type DailyTotal struct {
	Date  Date
	Total Money
}

// MonthlyTotal is the spend total for one (year, month) pair.
type MonthlyTotal struct {
	Year  int
	Month int // 1-12
	Total Money
}

// Summary is the rolling spend overview: today, last 7 days, last 30 days.
type Summary struct {
	Today Money
	Week  Money
	Month Money
}

// Balance is total income minus total expenses for one user.
// BalanceCents may be negative, which is why it is not a Money.
type Balance struct {
	IncomeCents   int64
	ExpensesCents int64
	BalanceCents  int64
}
