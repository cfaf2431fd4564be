// Package http exposes the service as a JSON API. Every data operation is
// scoped to the authenticated user resolved from the session cookie; the
// handlers stay thin and delegate semantics to the services layer.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"spendlog/internal/services"
	"spendlog/internal/storage"
)

// Options tunes the boundary layer; zero values get sensible defaults.
type Options struct {
	SessionTTL    time.Duration
	SecureCookies bool
}

type Server struct {
	http.Server
	store         *storage.Store
	tracker       *services.TrackerService
	rateLimiter   *rateLimiter
	sessionTTL    time.Duration
	secureCookies bool
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, store *storage.Store, tracker *services.TrackerService, opts Options) *Server {
	mux := http.NewServeMux()

	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:         store,
		tracker:       tracker,
		rateLimiter:   newRateLimiter(),
		sessionTTL:    opts.SessionTTL,
		secureCookies: opts.SecureCookies,
	}

	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("POST /api/signup", s.withRequestLog(s.handleSignup))
	mux.HandleFunc("POST /api/signin", s.withRequestLog(s.handleSignin))
	mux.HandleFunc("POST /api/signout", s.withRequestLog(s.handleSignout))
	mux.HandleFunc("GET /api/health", s.withRequestLog(s.handleAPIHealth))

	mux.HandleFunc("POST /api/expenses", s.withRequestLog(s.authed(s.handleAddExpense)))
	mux.HandleFunc("GET /api/expenses", s.withRequestLog(s.authed(s.handleListExpenses)))
	mux.HandleFunc("GET /api/expenses/{id}", s.withRequestLog(s.authed(s.handleGetExpense)))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withRequestLog(s.authed(s.handleUpdateExpense)))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withRequestLog(s.authed(s.handleDeleteExpense)))

	mux.HandleFunc("GET /api/summary", s.withRequestLog(s.authed(s.handleSummary)))
	mux.HandleFunc("GET /api/monthly", s.withRequestLog(s.authed(s.handleMonthlyTotals)))

	mux.HandleFunc("GET /api/budget", s.withRequestLog(s.authed(s.handleGetBudget)))
	mux.HandleFunc("POST /api/budget", s.withRequestLog(s.authed(s.handleSetBudget)))

	mux.HandleFunc("GET /api/categories", s.withRequestLog(s.authed(s.handleListCategories)))
	mux.HandleFunc("POST /api/categories", s.withRequestLog(s.authed(s.handleAddCategory)))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withRequestLog(s.authed(s.handleDeleteCategory)))

	return s
}

// withRequestLog adds security headers, per-IP rate limiting on writes,
// and request logging with a generated request id.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userKey      contextKey = "user"
)

// generateRequestID creates a unique request id for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
