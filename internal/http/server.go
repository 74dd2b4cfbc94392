package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/services"
	appweb "fintrack/web"
)

// appMetrics holds counters exposed on /metrics.
type appMetrics struct {
	startedAt     time.Time
	totalExpenses int64
	totalIncome   int64
	cacheHits     int64
	cacheMisses   int64
	rateLimitHits int64
	totalRequests int64
}

type Server struct {
	http.Server
	records     *services.RecordService
	templates   *template.Template
	rateLimiter *rateLimiter

	// statsCache holds marshaled JSON stats payloads keyed per user.
	statsCache  *cache.LRUCache[[]byte]
	janitorStop context.CancelFunc

	metrics      appMetrics
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server.
func NewServer(addr string, records *services.RecordService, statsTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		records:     records,
		rateLimiter: newRateLimiter(),
		statsCache:  cache.NewLRUCache[[]byte](500, statsTTL),
		metrics:     appMetrics{startedAt: time.Now()},
	}

	janitor := cache.NewJanitor(10 * time.Minute)
	janitor.Register(s.statsCache)
	janitorCtx, cancel := context.WithCancel(context.Background())
	s.janitorStop = cancel
	go janitor.Run(janitorCtx)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	mux.HandleFunc("/expenses/", s.withSecurityHeaders(s.handleExpenses))
	mux.HandleFunc("/income/", s.withSecurityHeaders(s.handleIncome))
	mux.HandleFunc("/categories/", s.withSecurityHeaders(s.handleCategories))
	mux.HandleFunc("/stats/by-category/", s.withSecurityHeaders(s.handleStatsByCategory))
	mux.HandleFunc("/stats/daily/", s.withSecurityHeaders(s.handleStatsDaily))
	mux.HandleFunc("/stats/monthly/", s.withSecurityHeaders(s.handleStatsMonthly))
	mux.HandleFunc("/stats/summary/", s.withSecurityHeaders(s.handleStatsSummary))
	mux.HandleFunc("/balance/", s.withSecurityHeaders(s.handleBalance))

	mux.HandleFunc("/dashboard/", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))

	return s
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		atomic.AddInt64(&s.metrics.totalRequests, 1)

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit record creation.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, &s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.janitorStop != nil {
			s.janitorStop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	http.Redirect(w, r, "/dashboard/", http.StatusFound)
}
