package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		cents   int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"500", 50000, false},
		{"1250.50", 125050, false},
		{"0.01", 1, false},
		{".5", 50, false},
		{"12.345", 1234, false}, // third digit rounds down
		{"12.346", 1235, false}, // third digit rounds up
		{" 7 ", 700, false},
		{"", 0, true},
		{"abc", 0, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"1.2.3", 0, true},
		{"12e3", 0, true},
		{"٥", 0, true},     // non-ASCII digits are rejected, not misread
		{"5,٥", 0, true},
		{"١٢.٥٠", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cents, err := ParseAmount(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) = %d, want error", tt.in, cents)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) error: %v", tt.in, err)
			}
			if cents != tt.cents {
				t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, cents, tt.cents)
			}
		})
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 125050})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "1250.50" {
		t.Errorf("marshal = %s, want 1250.50", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("500.5"), &m); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if m.Cents != 50050 {
		t.Errorf("unmarshal number = %d cents, want 50050", m.Cents)
	}

	if err := json.Unmarshal([]byte(`"42"`), &m); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if m.Cents != 4200 {
		t.Errorf("unmarshal string = %d cents, want 4200", m.Cents)
	}

	// Aggregate totals may be zero or negative on the wire.
	if err := json.Unmarshal([]byte("-12.50"), &m); err != nil {
		t.Fatalf("unmarshal negative: %v", err)
	}
	if m.Cents != -1250 {
		t.Errorf("unmarshal negative = %d cents, want -1250", m.Cents)
	}

	for _, in := range []string{`"nope"`, "null", `""`} {
		if err := json.Unmarshal([]byte(in), &m); err == nil {
			t.Errorf("unmarshal %s: want error", in)
		}
	}
}

func TestValidate(t *testing.T) {
	exp := Expense{UserID: 1, Amount: Money{Cents: 100}, Date: Today()}
	if err := exp.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}
	// Category and description stay unvalidated on purpose.
	exp.Category = ""
	exp.Description = ""
	if err := exp.Validate(); err != nil {
		t.Fatalf("empty labels should pass: %v", err)
	}

	exp.UserID = 0
	if err := exp.Validate(); err != ErrInvalidUserID {
		t.Errorf("want ErrInvalidUserID, got %v", err)
	}
	exp.UserID = 1
	exp.Amount.Cents = 0
	if err := exp.Validate(); err != ErrInvalidAmount {
		t.Errorf("want ErrInvalidAmount, got %v", err)
	}
	exp.Amount.Cents = 100
	exp.Date = Date{}
	if err := exp.Validate(); err != ErrInvalidDate {
		t.Errorf("want ErrInvalidDate, got %v", err)
	}

	inc := Income{UserID: 2, Amount: Money{Cents: 5000000}, Source: "Salary", Date: Today()}
	if err := inc.Validate(); err != nil {
		t.Fatalf("valid income rejected: %v", err)
	}
}
