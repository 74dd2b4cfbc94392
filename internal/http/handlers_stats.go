package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"fintrack/internal/api"
	"fintrack/internal/core"
)

// statsKey builds the cache key for a per-user stats payload. All keys
// of one user share the "u<id>:" prefix so a record write can sweep
// them together.
func statsKey(userID int64, endpoint string, days int) string {
	return fmt.Sprintf("u%d:%s:%d", userID, endpoint, days)
}

func (s *Server) invalidateStats(userID int64) {
	removed := s.statsCache.DeletePrefix(fmt.Sprintf("u%d:", userID))
	if removed > 0 {
		slog.Debug("Invalidated stats cache", "user_id", userID, "entries", removed)
	}
}

// cachedStats serves a stats payload from cache, computing and storing
// it on a miss.
func (s *Server) cachedStats(w http.ResponseWriter, r *http.Request, key string, compute func() (any, error)) {
	if body, ok := s.statsCache.Get(key); ok {
		atomic.AddInt64(&s.metrics.cacheHits, 1)
		writeJSONBytes(w, http.StatusOK, body)
		return
	}
	atomic.AddInt64(&s.metrics.cacheMisses, 1)

	v, err := compute()
	if err != nil {
		slog.ErrorContext(r.Context(), "Stats query failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	body, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal stats", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.statsCache.Set(key, body)
	writeJSONBytes(w, http.StatusOK, body)
}

func (s *Server) handleStatsByCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	days := parseDays(r, 30)

	s.cachedStats(w, r, statsKey(userID, "by-category", days), func() (any, error) {
		totals, err := s.records.Storage().StatsByCategory(r.Context(), userID, days)
		if err != nil {
			return nil, err
		}
		out := make([]api.CategoryStat, 0, len(totals))
		for _, t := range totals {
			out = append(out, api.CategoryStat{Category: t.Category, Total: t.Total, Count: t.Count})
		}
		return out, nil
	})
}

func (s *Server) handleStatsDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	days := parseDays(r, 30)

	s.cachedStats(w, r, statsKey(userID, "daily", days), func() (any, error) {
		totals, err := s.records.Storage().StatsDaily(r.Context(), userID, days)
		if err != nil {
			return nil, err
		}
		out := make([]api.DailyStat, 0, len(totals))
		for _, t := range totals {
			out = append(out, api.DailyStat{Date: t.Date, Total: t.Total})
		}
		return out, nil
	})
}

func (s *Server) handleStatsMonthly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.cachedStats(w, r, statsKey(userID, "monthly", 0), func() (any, error) {
		totals, err := s.records.Storage().StatsMonthly(r.Context(), userID)
		if err != nil {
			return nil, err
		}
		out := make([]api.MonthlyStat, 0, len(totals))
		for _, t := range totals {
			out = append(out, api.MonthlyStat{Year: t.Year, Month: t.Month, Total: t.Total})
		}
		return out, nil
	})
}

func (s *Server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.cachedStats(w, r, statsKey(userID, "summary", 0), func() (any, error) {
		sum, err := s.records.Storage().Summary(r.Context(), userID)
		if err != nil {
			return nil, err
		}
		return api.Summary{Today: sum.Today, Week: sum.Week, Month: sum.Month}, nil
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.cachedStats(w, r, statsKey(userID, "balance", 0), func() (any, error) {
		bal, err := s.records.Storage().Balance(r.Context(), userID)
		if err != nil {
			return nil, err
		}
		return api.Balance{
			Income:   core.Money{Cents: bal.IncomeCents},
			Expenses: core.Money{Cents: bal.ExpensesCents},
			Balance:  core.Money{Cents: bal.BalanceCents},
		}, nil
	})
}
