package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// defaultDashboardUser is shown when no user_id query parameter is set.
const defaultDashboardUser int64 = 123456

type dashboardBar struct {
	Label  string
	Amount string
	Count  int64
	Width  int
}

type dashboardData struct {
	UserID        int64
	Today         string
	Week          string
	Month         string
	Balance       string
	BalanceNeg    bool
	Categories    []dashboardBar
	Daily         []dashboardBar
	Monthly       []dashboardBar
	HasCategories bool
	HasDaily      bool
	HasMonthly    bool
}

// handleDashboard renders the spending dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "templates not loaded")
		return
	}

	userID := defaultDashboardUser
	if v := strings.TrimSpace(r.URL.Query().Get("user_id")); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			userID = id
		}
	}

	ctx := r.Context()
	store := s.records.Storage()

	summary, err := store.Summary(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard summary error", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	balance, err := store.Balance(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard balance error", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	data := dashboardData{
		UserID:     userID,
		Today:      summary.Today.String(),
		Week:       summary.Week.String(),
		Month:      summary.Month.String(),
		Balance:    core.Money{Cents: balance.BalanceCents}.String(),
		BalanceNeg: balance.BalanceCents < 0,
	}

	if cats, err := store.StatsByCategory(ctx, userID, 30); err != nil {
		slog.ErrorContext(ctx, "Dashboard category stats error", "error", err, "user_id", userID)
	} else {
		var maxCents int64
		for _, c := range cats {
			if c.Total.Cents > maxCents {
				maxCents = c.Total.Cents
			}
		}
		for _, c := range cats {
			data.Categories = append(data.Categories, dashboardBar{
				Label:  c.Category,
				Amount: c.Total.String(),
				Count:  c.Count,
				Width:  barWidth(c.Total.Cents, maxCents),
			})
		}
		data.HasCategories = len(data.Categories) > 0
	}

	if daily, err := store.StatsDaily(ctx, userID, 30); err != nil {
		slog.ErrorContext(ctx, "Dashboard daily stats error", "error", err, "user_id", userID)
	} else {
		var maxCents int64
		for _, d := range daily {
			if d.Total.Cents > maxCents {
				maxCents = d.Total.Cents
			}
		}
		for _, d := range daily {
			data.Daily = append(data.Daily, dashboardBar{
				Label:  d.Date.String(),
				Amount: d.Total.String(),
				Width:  barWidth(d.Total.Cents, maxCents),
			})
		}
		data.HasDaily = len(data.Daily) > 0
	}

	if monthly, err := store.StatsMonthly(ctx, userID); err != nil {
		slog.ErrorContext(ctx, "Dashboard monthly stats error", "error", err, "user_id", userID)
	} else {
		var maxCents int64
		for _, m := range monthly {
			if m.Total.Cents > maxCents {
				maxCents = m.Total.Cents
			}
		}
		for _, m := range monthly {
			label := strconv.Itoa(m.Year) + "-"
			if m.Month < 10 {
				label += "0"
			}
			label += strconv.Itoa(m.Month)
			data.Monthly = append(data.Monthly, dashboardBar{
				Label:  label,
				Amount: m.Total.String(),
				Width:  barWidth(m.Total.Cents, maxCents),
			})
		}
		data.HasMonthly = len(data.Monthly) > 0
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(ctx, "Dashboard template execution failed", "error", err, "template", "dashboard.html")
	}
}

// barWidth converts a value into a rounded percentage of the maximum,
// clamped so tiny values are still visible.
func barWidth(cents, maxCents int64) int {
	if maxCents <= 0 || cents <= 0 {
		return 0
	}
	width := int((cents*100 + maxCents/2) / maxCents)
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}
