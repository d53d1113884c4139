// Package handlers implements the HTTP surface of the bank API.
package handlers

import (
	"log/slog"

	"github.com/sofiamancini/bancore/internal/service"
)

// Handler holds the service dependencies behind the HTTP endpoints.
type Handler struct {
	accounts   *service.AccountService
	auth       *service.AuthService
	transfers  *service.TransferService
	ledger     *service.LedgerService
	trades     *service.TradeService
	statements *service.StatementService
	health     service.HealthChecker
	logger     *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	accounts *service.AccountService,
	auth *service.AuthService,
	transfers *service.TransferService,
	ledger *service.LedgerService,
	trades *service.TradeService,
	statements *service.StatementService,
	health service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		accounts:   accounts,
		auth:       auth,
		transfers:  transfers,
		ledger:     ledger,
		trades:     trades,
		statements: statements,
		health:     health,
		logger:     logger,
	}
}
