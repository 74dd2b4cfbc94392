package core

import (
	"bytes"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component. It marshals to the
// ISO form "2006-01-02" used throughout the record API.
type Date struct {
	time.Time
}

// Today returns the current calendar date in UTC.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return ErrInvalidDate
	}
	*d = parsed
	return nil
}
