package http

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"fintrack/internal/api"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateExpense(w, r)
	case http.MethodGet:
		s.handleListExpenses(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req api.Expense
	if err := decodeJSON(r, &req); err != nil {
		slog.WarnContext(r.Context(), "Invalid expense payload", "error", err)
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	req.Category = sanitizeInput(req.Category)
	req.Description = sanitizeInput(req.Description)

	saved, err := s.records.CreateExpense(r.Context(), req.ToCore())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create expense",
			"error", err,
			"user_id", req.UserID,
			"amount_cents", req.Amount.Cents,
			"category", req.Category)
		writeValidationError(w, err)
		return
	}

	atomic.AddInt64(&s.metrics.totalExpenses, 1)
	s.invalidateStats(saved.UserID)

	writeJSON(w, http.StatusOK, api.ExpenseFromCore(saved))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var filter storage.ExpenseFilter
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("start_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "start_date must be a valid YYYY-MM-DD date")
			return
		}
		filter.StartDate = d
	}
	if v := strings.TrimSpace(q.Get("end_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "end_date must be a valid YYYY-MM-DD date")
			return
		}
		filter.EndDate = d
	}
	filter.Category = sanitizeInput(q.Get("category"))

	expenses, err := s.records.Storage().ListExpenses(r.Context(), userID, filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list expenses", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]api.Expense, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, api.ExpenseFromCore(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	categories, err := s.records.Storage().Categories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list categories", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categories)
}
