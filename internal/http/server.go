// Package http exposes the bookkeeping operations as a JSON API. Callers
// identify themselves with the X-Wallet-Owner header; every record is
// scoped to that owner.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
	"wallet/internal/services"
)

// LedgerService records incomes and expenses with their mirror entries.
type LedgerService interface {
	RecordIncome(ctx context.Context, ownerID int64, in services.EntryInput) (core.Income, error)
	RecordExpense(ctx context.Context, ownerID int64, in services.EntryInput) (core.Expense, error)
	UpdateIncome(ctx context.Context, ownerID, id int64, in services.EntryInput) (core.Income, error)
	UpdateExpense(ctx context.Context, ownerID, id int64, in services.EntryInput) (core.Expense, error)
	DeleteIncome(ctx context.Context, ownerID, id int64) error
	DeleteExpense(ctx context.Context, ownerID, id int64) error
	GetIncome(ctx context.Context, ownerID, id int64) (core.Income, error)
	GetExpense(ctx context.Context, ownerID, id int64) (core.Expense, error)
	ListIncomes(ctx context.Context, ownerID int64, rng core.DateRange) ([]core.Income, decimal.Decimal, error)
	ListExpenses(ctx context.Context, ownerID int64, rng core.DateRange) ([]core.Expense, decimal.Decimal, error)
	ListTransactions(ctx context.Context, ownerID int64, rng core.DateRange) ([]core.Transaction, error)
}

// AccountService moves money in and out of accounts.
type AccountService interface {
	CreateAccount(ctx context.Context, ownerID int64, name string, currencyID int64, balance decimal.Decimal) (core.Account, error)
	GetAccount(ctx context.Context, ownerID, id int64) (core.Account, error)
	ListAccounts(ctx context.Context, ownerID int64) ([]core.Account, error)
	DeleteAccount(ctx context.Context, ownerID, id int64) error
	Deposit(ctx context.Context, ownerID, accountID int64, in services.MovementInput) (core.Account, core.Transaction, error)
	Withdraw(ctx context.Context, ownerID, accountID int64, in services.MovementInput) (core.Account, core.Transaction, error)
	Exchange(ctx context.Context, ownerID, accountID int64, amount decimal.Decimal, date core.Date) (core.Income, core.Transaction, error)
}

// SavingsService tracks savings goals.
type SavingsService interface {
	CreateGoal(ctx context.Context, ownerID int64, in services.SavingsInput) (core.Savings, error)
	GetGoal(ctx context.Context, ownerID, id int64) (core.Savings, error)
	ListGoals(ctx context.Context, ownerID int64) ([]core.Savings, error)
	EditGoal(ctx context.Context, ownerID, id int64, in services.SavingsInput) (core.Savings, error)
	Deposit(ctx context.Context, ownerID, id int64, amount decimal.Decimal) (core.Savings, error)
	DeleteGoal(ctx context.Context, ownerID, id int64) error
}

// ReportService computes the read-only aggregates.
type ReportService interface {
	Dashboard(ctx context.Context, ownerID int64) (core.DashboardSummary, error)
	CategoryStats(ctx context.Context, ownerID int64) ([]core.CategoryStat, error)
}

// RegistryService serves currencies and categories.
type RegistryService interface {
	ListCurrencies(ctx context.Context) ([]core.Currency, error)
	CreateCategory(ctx context.Context, ownerID int64, name, description string) (core.Category, error)
	ListCategories(ctx context.Context, ownerID int64) ([]core.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id int64) error
}

// RatePublisher asks the rates worker for a refresh.
type RatePublisher interface {
	PublishRateRefresh(ctx context.Context, reason string) error
}

type Server struct {
	http.Server
	ledger      LedgerService
	accounts    AccountService
	savings     SavingsService
	reports     ReportService
	registry    RegistryService
	rates       RatePublisher
	rateLimiter *rateLimiter
}

// NewServer configures the routes and returns a ready-to-run server. The
// rates publisher may be nil when AMQP is not configured; the refresh
// endpoint then reports the feature unavailable.
func NewServer(addr string, ledger LedgerService, accounts AccountService, savings SavingsService, reports ReportService, registry RegistryService, rates RatePublisher) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:      ledger,
		accounts:    accounts,
		savings:     savings,
		reports:     reports,
		registry:    registry,
		rates:       rates,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /incomes", s.with(s.handleCreateIncome))
	mux.HandleFunc("GET /incomes", s.with(s.handleListIncomes))
	mux.HandleFunc("GET /incomes/{id}", s.with(s.handleGetIncome))
	mux.HandleFunc("PUT /incomes/{id}", s.with(s.handleUpdateIncome))
	mux.HandleFunc("DELETE /incomes/{id}", s.with(s.handleDeleteIncome))

	mux.HandleFunc("POST /expenses", s.with(s.handleCreateExpense))
	mux.HandleFunc("GET /expenses", s.with(s.handleListExpenses))
	mux.HandleFunc("GET /expenses/{id}", s.with(s.handleGetExpense))
	mux.HandleFunc("PUT /expenses/{id}", s.with(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /expenses/{id}", s.with(s.handleDeleteExpense))

	mux.HandleFunc("GET /transactions", s.with(s.handleListTransactions))

	mux.HandleFunc("POST /accounts", s.with(s.handleCreateAccount))
	mux.HandleFunc("GET /accounts", s.with(s.handleListAccounts))
	mux.HandleFunc("GET /accounts/{id}", s.with(s.handleGetAccount))
	mux.HandleFunc("DELETE /accounts/{id}", s.with(s.handleDeleteAccount))
	mux.HandleFunc("POST /accounts/{id}/deposit", s.with(s.handleAccountDeposit))
	mux.HandleFunc("POST /accounts/{id}/withdraw", s.with(s.handleAccountWithdraw))
	mux.HandleFunc("POST /accounts/{id}/exchange", s.with(s.handleAccountExchange))

	mux.HandleFunc("POST /savings", s.with(s.handleCreateSavings))
	mux.HandleFunc("GET /savings", s.with(s.handleListSavings))
	mux.HandleFunc("GET /savings/{id}", s.with(s.handleGetSavings))
	mux.HandleFunc("PUT /savings/{id}", s.with(s.handleEditSavings))
	mux.HandleFunc("DELETE /savings/{id}", s.with(s.handleDeleteSavings))
	mux.HandleFunc("POST /savings/{id}/deposit", s.with(s.handleSavingsDeposit))

	mux.HandleFunc("GET /currencies", s.with(s.handleListCurrencies))
	mux.HandleFunc("POST /rates/refresh", s.with(s.handleRateRefresh))

	mux.HandleFunc("POST /categories", s.with(s.handleCreateCategory))
	mux.HandleFunc("GET /categories", s.with(s.handleListCategories))
	mux.HandleFunc("DELETE /categories/{id}", s.with(s.handleDeleteCategory))

	mux.HandleFunc("GET /dashboard", s.with(s.handleDashboard))
	mux.HandleFunc("GET /dashboard/categories", s.with(s.handleCategoryStats))

	return s
}

// with adds request logging, rate limiting and security headers.
func (s *Server) with(next http.HandlerFunc) http.HandlerFunc {
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
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
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

type requestIDKey struct{}

// responseWriter captures the status code for the completion log line.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// rateLimiter allows up to 60 mutating requests per minute per client.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

// Shutdown stops the rate limiter cleanup and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.rateLimiter != nil {
		s.rateLimiter.stop()
	}
	return s.Server.Shutdown(ctx)
}
