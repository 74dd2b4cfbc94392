package http

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"fintrack/internal/api"
)

func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req api.Income
	if err := decodeJSON(r, &req); err != nil {
		slog.WarnContext(r.Context(), "Invalid income payload", "error", err)
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	req.Source = sanitizeInput(req.Source)
	req.Description = sanitizeInput(req.Description)

	saved, err := s.records.CreateIncome(r.Context(), req.ToCore())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create income",
			"error", err,
			"user_id", req.UserID,
			"amount_cents", req.Amount.Cents,
			"source", req.Source)
		writeValidationError(w, err)
		return
	}

	atomic.AddInt64(&s.metrics.totalIncome, 1)
	s.invalidateStats(saved.UserID)

	writeJSON(w, http.StatusOK, api.IncomeFromCore(saved))
}
