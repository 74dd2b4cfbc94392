package http

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.metrics.startedAt).String(),
	})
}

// handleReady performs a readiness check with dependency verification.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	// A lightweight query proves the database is reachable.
	if _, err := s.records.Storage().Categories(ctx); err != nil {
		checks["database"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	checks["cache"] = map[string]any{
		"stats_entries": s.statsCache.Size(),
		"status":        "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics exposes application counters in Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	totalExpenses := atomic.LoadInt64(&s.metrics.totalExpenses)
	totalIncome := atomic.LoadInt64(&s.metrics.totalIncome)
	cacheHits := atomic.LoadInt64(&s.metrics.cacheHits)
	cacheMisses := atomic.LoadInt64(&s.metrics.cacheMisses)
	rateLimitHits := atomic.LoadInt64(&s.metrics.rateLimitHits)
	totalRequests := atomic.LoadInt64(&s.metrics.totalRequests)
	uptime := time.Since(s.metrics.startedAt)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", totalRequests)

	fmt.Fprintf(w, "# HELP records_total Total number of records created\n")
	fmt.Fprintf(w, "# TYPE records_total counter\n")
	fmt.Fprintf(w, "records_total{kind=\"expense\"} %d\n", totalExpenses)
	fmt.Fprintf(w, "records_total{kind=\"income\"} %d\n\n", totalIncome)

	fmt.Fprintf(w, "# HELP stats_cache_hits_total Total stats cache hits\n")
	fmt.Fprintf(w, "# TYPE stats_cache_hits_total counter\n")
	fmt.Fprintf(w, "stats_cache_hits_total %d\n\n", cacheHits)

	fmt.Fprintf(w, "# HELP stats_cache_misses_total Total stats cache misses\n")
	fmt.Fprintf(w, "# TYPE stats_cache_misses_total counter\n")
	fmt.Fprintf(w, "stats_cache_misses_total %d\n\n", cacheMisses)

	fmt.Fprintf(w, "# HELP stats_cache_entries Current stats cache entries\n")
	fmt.Fprintf(w, "# TYPE stats_cache_entries gauge\n")
	fmt.Fprintf(w, "stats_cache_entries %d\n\n", s.statsCache.Size())

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitHits)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", s.rateLimiter.ActiveClients())

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", uptime.Seconds())
}
