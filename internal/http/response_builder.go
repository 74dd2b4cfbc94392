package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/api"
	"fintrack/internal/core"
)

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeJSONBytes writes an already-marshaled JSON payload.
func writeJSONBytes(w http.ResponseWriter, statusCode int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

// writeError sends a JSON error body of the form {"detail": msg}.
func writeError(w http.ResponseWriter, statusCode int, detail string) {
	writeJSON(w, statusCode, api.ErrorResponse{Detail: detail})
}

// writeValidationError maps record validation failures to 422 and
// everything else to 500.
func writeValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		writeError(w, http.StatusUnprocessableEntity, "amount must be a positive number")
	case errors.Is(err, core.ErrInvalidUserID):
		writeError(w, http.StatusUnprocessableEntity, "user_id must be a positive integer")
	case errors.Is(err, core.ErrInvalidDate):
		writeError(w, http.StatusUnprocessableEntity, "date must be a valid YYYY-MM-DD date")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}
