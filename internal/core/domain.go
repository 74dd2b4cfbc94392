package core

import (
	"errors"
	"time"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidUserID = errors.New("invalid user id")
	ErrInvalidDate   = errors.New("invalid date")
)

type (
	// Expense is a single spending record owned by one user.
	Expense struct {
		ID          int64
		UserID      int64
		Amount      Money
		Category    string
		Description string
		Date        Date
		CreatedAt   time.Time
	}

	// Income is a single earning record owned by one user.
	Income struct {
		ID          int64
		UserID      int64
		Amount      Money
		Source      string
		Description string
		Date        Date
		CreatedAt   time.Time
	}
)

// Validate checks the fields a record cannot exist without. Category and
// description are deliberately unvalidated: the entry surfaces accept any
// label, including free text outside the suggested set.
func (e Expense) Validate() error {
	if e.UserID <= 0 {
		return ErrInvalidUserID
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Validate checks the fields a record cannot exist without. Source and
// description accept any value, same as expense categories.
func (i Income) Validate() error {
	if i.UserID <= 0 {
		return ErrInvalidUserID
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if i.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
