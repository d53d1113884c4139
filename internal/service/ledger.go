package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/sofiamancini/bancore/internal/db"
	"github.com/sofiamancini/bancore/internal/models"
	"github.com/sofiamancini/bancore/internal/repository"
)

// LedgerService reads the append-only transaction log. It never decides
// whether an operation is allowed and never mutates state.
type LedgerService struct {
	db *db.DB
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(database *db.DB) *LedgerService {
	return &LedgerService{db: database}
}

// ListTransactions returns the account's ledger entries newest-first.
func (s *LedgerService) ListTransactions(ctx context.Context, accountID uuid.UUID) ([]*models.Transaction, error) {
	txns, err := repository.NewTransactionRepository(s.db).ListForAccount(ctx, accountID)
	if err != nil {
		return nil, internalError("failed to list transactions", err)
	}
	return txns, nil
}
