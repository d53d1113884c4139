package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sofiamancini/bancore/internal/config"
	"github.com/sofiamancini/bancore/internal/db"
	"github.com/sofiamancini/bancore/internal/notify"
	"github.com/sofiamancini/bancore/internal/password"
	"github.com/sofiamancini/bancore/internal/prices"
	"github.com/sofiamancini/bancore/internal/service"
)

// NewRouter wires the services and returns the configured HTTP router.
func NewRouter(
	database *db.DB,
	cfg *config.Config,
	logger *slog.Logger,
) http.Handler {
	hasher := password.NewHasher()
	sink := notify.NewSMTPSink(&cfg.SMTP)
	oracle := prices.NewClient(&cfg.Prices)

	accountService := service.NewAccountService(database, hasher, sink, &cfg.Auth, logger)
	authService := service.NewAuthService(database, hasher, sink, &cfg.Auth, logger)
	transferService := service.NewTransferService(database, hasher, logger)
	ledgerService := service.NewLedgerService(database)
	tradeService := service.NewTradeService(database, oracle, logger)
	statementService := service.NewStatementService()

	handler := NewHandler(
		accountService,
		authService,
		transferService,
		ledgerService,
		tradeService,
		statementService,
		database,
		logger,
	)

	return handler.Routes()
}

// Routes builds the route table for the handler.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public endpoints.
	api.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/login/verify-otp", h.VerifyOTP).Methods(http.MethodPost)
	api.HandleFunc("/password/forgot", h.ForgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/password/reset", h.ResetPassword).Methods(http.MethodPost)

	// Everything below needs an authenticated session.
	api.HandleFunc("/logout", h.requireSession(h.Logout)).Methods(http.MethodPost)
	api.HandleFunc("/account", h.requireSession(h.GetAccount)).Methods(http.MethodGet)
	api.HandleFunc("/account/pin", h.requireSession(h.SetPIN)).Methods(http.MethodPut)
	api.HandleFunc("/account/password", h.requireSession(h.ChangePassword)).Methods(http.MethodPut)

	api.HandleFunc("/deposit", h.requireSession(h.Deposit)).Methods(http.MethodPost)
	api.HandleFunc("/withdraw", h.requireSession(h.Withdraw)).Methods(http.MethodPost)
	api.HandleFunc("/transfer", h.requireSession(h.Transfer)).Methods(http.MethodPost)
	api.HandleFunc("/transactions", h.requireSession(h.ListTransactions)).Methods(http.MethodGet)
	api.HandleFunc("/statement", h.requireSession(h.Statement)).Methods(http.MethodGet)

	api.HandleFunc("/card", h.requireSession(h.GetCard)).Methods(http.MethodGet)
	api.HandleFunc("/card/reveal", h.requireSession(h.RevealCard)).Methods(http.MethodPost)
	api.HandleFunc("/cards/{cardID}/block", h.requireSession(h.BlockCard)).Methods(http.MethodPost)
	api.HandleFunc("/cards/{cardID}/unblock", h.requireSession(h.UnblockCard)).Methods(http.MethodPost)

	api.HandleFunc("/trades", h.requireSession(h.PlaceTrade)).Methods(http.MethodPost)
	api.HandleFunc("/trades", h.requireSession(h.ListTrades)).Methods(http.MethodGet)
	api.HandleFunc("/quote", h.requireSession(h.Quote)).Methods(http.MethodGet)

	return r
}
