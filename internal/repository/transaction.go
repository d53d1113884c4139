package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sofiamancini/bancore/internal/models"
)

// TransactionRepository defines the interface for ledger entry access.
// Entries are append-only: there is no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	ListForAccount(ctx context.Context, accountID uuid.UUID) ([]*models.Transaction, error)
}

type transactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new TransactionRepository bound to a pool or tx
func NewTransactionRepository(db DBTX) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create appends a ledger entry
func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}

	query := `
		INSERT INTO transactions (id, account_id, amount_cents, kind, category, detail, balance_after_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		txn.ID,
		txn.AccountID,
		txn.AmountCents,
		txn.Kind,
		txn.Category,
		txn.Detail,
		txn.BalanceAfterCents,
	).Scan(&txn.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// ListForAccount returns the account's ledger newest-first, insertion order
// breaking timestamp ties.
func (r *transactionRepository) ListForAccount(ctx context.Context, accountID uuid.UUID) ([]*models.Transaction, error) {
	query := `
		SELECT id, account_id, amount_cents, kind, category, detail, balance_after_cents, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		var txn models.Transaction
		err := rows.Scan(
			&txn.ID,
			&txn.AccountID,
			&txn.AmountCents,
			&txn.Kind,
			&txn.Category,
			&txn.Detail,
			&txn.BalanceAfterCents,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}
