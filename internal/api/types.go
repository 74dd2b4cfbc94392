// Package api defines the JSON wire types of the record API and a
// client for it. The bot talks to the backend exclusively through this
// package.
package api

import (
	"fintrack/internal/core"
)

// Expense is the wire form of an expense record. Amount is a decimal
// number of currency units.
type Expense struct {
	ID          int64      `json:"id,omitempty"`
	UserID      int64      `json:"user_id"`
	Amount      core.Money `json:"amount"`
	Category    string     `json:"category"`
	Description string     `json:"description,omitempty"`
	Date        core.Date  `json:"date"`
}

// Income is the wire form of an income record.
type Income struct {
	ID          int64      `json:"id,omitempty"`
	UserID      int64      `json:"user_id"`
	Amount      core.Money `json:"amount"`
	Source      string     `json:"source"`
	Description string     `json:"description,omitempty"`
	Date        core.Date  `json:"date"`
}

type CategoryStat struct {
	Category string     `json:"category"`
	Total    core.Money `json:"total"`
	Count    int64      `json:"count"`
}

type DailyStat struct {
	Date  core.Date  `json:"date"`
	Total core.Money `json:"total"`
}

type MonthlyStat struct {
	Year  int        `json:"year"`
	Month int        `json:"month"`
	Total core.Money `json:"total"`
}

type Summary struct {
	Today core.Money `json:"today"`
	Week  core.Money `json:"week"`
	Month core.Money `json:"month"`
}

type Balance struct {
	Income   core.Money `json:"income"`
	Expenses core.Money `json:"expenses"`
	Balance  core.Money `json:"balance"`
}

// ErrorResponse is the error body returned by the API.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func ExpenseFromCore(e core.Expense) Expense {
	return Expense{
		ID:          e.ID,
		UserID:      e.UserID,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
	}
}

func (e Expense) ToCore() core.Expense {
	return core.Expense{
		ID:          e.ID,
		UserID:      e.UserID,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
	}
}

func IncomeFromCore(in core.Income) Income {
	return Income{
		ID:          in.ID,
		UserID:      in.UserID,
		Amount:      in.Amount,
		Source:      in.Source,
		Description: in.Description,
		Date:        in.Date,
	}
}

func (in Income) ToCore() core.Income {
	return core.Income{
		ID:          in.ID,
		UserID:      in.UserID,
		Amount:      in.Amount,
		Source:      in.Source,
		Description: in.Description,
		Date:        in.Date,
	}
}
