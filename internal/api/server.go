// Package api exposes the HTTP surface: upload, categorization, transaction
// CRUD, rules, accounts, insights and auth, routed with gorilla/mux.
package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"financetrack/internal/insights"
	"financetrack/internal/logging"
	"financetrack/internal/models"
	"financetrack/internal/store"
)

// Store is the persistence surface the handlers use.
type Store interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)

	ListAccounts(ctx context.Context, userID int64) ([]models.Account, error)
	CreateAccount(ctx context.Context, a models.Account) (models.Account, error)
	AccountOwnedBy(ctx context.Context, userID, accountID int64) (models.Account, error)

	Categories(ctx context.Context) ([]models.Category, error)

	ListRules(ctx context.Context, userID int64) ([]models.Rule, error)
	CreateRule(ctx context.Context, r models.Rule) (models.Rule, error)
	DeleteRule(ctx context.Context, userID, id int64) error

	ListTransactions(ctx context.Context, userID int64, filter store.TransactionFilter) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id int64) (models.Transaction, error)
	CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, id int64, categoryID *int64, description *string) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error
}

// Ingestor parses and persists uploaded CSV statements.
type Ingestor interface {
	Ingest(ctx context.Context, userID, accountID int64, r io.Reader) (models.UploadResult, []models.Transaction, error)
}

// Categorizer runs the rule-then-AI pipeline over a batch.
type Categorizer interface {
	CategorizeBatch(ctx context.Context, userID int64, ids []int64, useAI bool) (models.CategorizeResult, error)
}

// Insights assembles monthly reports.
type Insights interface {
	MonthlyReport(ctx context.Context, userID int64, month, year int) (insights.MonthlyReport, error)
}

// Server wires the HTTP handlers to the application services.
type Server struct {
	store       Store
	ingestor    Ingestor
	categorizer Categorizer
	insights    Insights
	sessions    *SessionManager
	logger      logging.Logger
	maxUpload   int64
}

// Options configures a Server.
type Options struct {
	Store         Store
	Ingestor      Ingestor
	Categorizer   Categorizer
	Insights      Insights
	SessionTTL    time.Duration
	MaxUploadSize int64
	Logger        logging.Logger
}

// NewServer creates a Server from its collaborators.
func NewServer(opts Options) *Server {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	maxUpload := opts.MaxUploadSize
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &Server{
		store:       opts.Store,
		ingestor:    opts.Ingestor,
		categorizer: opts.Categorizer,
		insights:    opts.Insights,
		sessions:    NewSessionManager(ttl),
		logger:      opts.Logger,
		maxUpload:   maxUpload,
	}
}

// Router builds the full route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.requireAuth(s.handleLogout)).Methods(http.MethodPost)

	r.HandleFunc("/api/transactions/upload", s.requireAuth(s.handleUpload)).Methods(http.MethodPost)
	r.HandleFunc("/api/transactions/categorize", s.requireAuth(s.handleCategorize)).Methods(http.MethodPost)
	r.HandleFunc("/api/transactions/export", s.requireAuth(s.handleExport)).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions", s.requireAuth(s.handleListTransactions)).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions", s.requireAuth(s.handleCreateTransaction)).Methods(http.MethodPost)
	r.HandleFunc("/api/transactions/{id:[0-9]+}", s.requireAuth(s.handleGetTransaction)).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions/{id:[0-9]+}", s.requireAuth(s.handleUpdateTransaction)).Methods(http.MethodPut)
	r.HandleFunc("/api/transactions/{id:[0-9]+}", s.requireAuth(s.handleDeleteTransaction)).Methods(http.MethodDelete)

	r.HandleFunc("/api/categories", s.requireAuth(s.handleListCategories)).Methods(http.MethodGet)

	r.HandleFunc("/api/rules", s.requireAuth(s.handleListRules)).Methods(http.MethodGet)
	r.HandleFunc("/api/rules", s.requireAuth(s.handleCreateRule)).Methods(http.MethodPost)
	r.HandleFunc("/api/rules/{id:[0-9]+}", s.requireAuth(s.handleDeleteRule)).Methods(http.MethodDelete)

	r.HandleFunc("/api/accounts", s.requireAuth(s.handleListAccounts)).Methods(http.MethodGet)
	r.HandleFunc("/api/accounts", s.requireAuth(s.handleCreateAccount)).Methods(http.MethodPost)

	r.HandleFunc("/api/insights/monthly", s.requireAuth(s.handleMonthlyInsights)).Methods(http.MethodGet)

	r.Use(s.logRequests)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logRequests logs every request with method, path and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.WithFields(
			logging.F("method", r.Method),
			logging.F("path", r.URL.Path),
			logging.F("duration_ms", time.Since(start).Milliseconds()),
		).Debug("Request handled")
	})
}
