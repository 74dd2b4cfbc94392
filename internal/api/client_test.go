package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestClientCreateExpense(t *testing.T) {
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/expenses/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 7, "user_id": 42, "amount": 12.50, "category": "Food", "date": "2026-08-30"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	created, err := client.CreateExpense(context.Background(), Expense{
		UserID:   42,
		Amount:   core.Money{Cents: 1250},
		Category: "Food",
		Date:     mustDate(t, "2026-08-30"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, int64(1250), created.Amount.Cents)

	// Amount travels as a JSON number of currency units.
	assert.Equal(t, 12.5, gotBody["amount"])
	assert.Equal(t, "2026-08-30", gotBody["date"])
}

func TestClientCreateIncome(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/income/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 3, "user_id": 42, "amount": 2500, "source": "Salary", "date": "2026-08-01"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	created, err := client.CreateIncome(context.Background(), Income{
		UserID: 42,
		Amount: core.Money{Cents: 250000},
		Source: "Salary",
		Date:   mustDate(t, "2026-08-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, int64(250000), created.Amount.Cents)
}

func TestClientSummaryAndBalance(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "42", r.URL.Query().Get("user_id"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/stats/summary/":
			_, _ = w.Write([]byte(`{"today": 10.00, "week": 70.50, "month": 300.00}`))
		case "/balance/":
			_, _ = w.Write([]byte(`{"income": 100.00, "expenses": 150.00, "balance": -50.00}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	sum, err := client.Summary(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), sum.Today.Cents)
	assert.Equal(t, int64(7050), sum.Week.Cents)

	bal, err := client.Balance(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(-5000), bal.Balance.Cents)
}

func TestClientStatsByCategory(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stats/by-category/", r.URL.Path)
		require.Equal(t, "30", r.URL.Query().Get("days"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"category": "Food", "total": 55.00, "count": 3}]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	stats, err := client.StatsByCategory(context.Background(), 42, 30)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "Food", stats[0].Category)
	assert.Equal(t, int64(5500), stats[0].Total.Cents)
	assert.Equal(t, int64(3), stats[0].Count)
}

func TestClientErrorDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "amount must be a positive number"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	_, err := client.CreateExpense(context.Background(), Expense{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount must be a positive number")
	assert.Contains(t, err.Error(), "422")
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()

	d, err := core.ParseDate(s)
	require.NoError(t, err)
	return d
}
