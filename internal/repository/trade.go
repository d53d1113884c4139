package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sofiamancini/bancore/internal/models"
)

// TradeRepository defines the interface for crypto trade records
type TradeRepository interface {
	Create(ctx context.Context, trade *models.Trade) error
	ListForAccount(ctx context.Context, accountID uuid.UUID, symbol string) ([]*models.Trade, error)
}

type tradeRepository struct {
	db DBTX
}

// NewTradeRepository creates a new TradeRepository bound to a pool or tx
func NewTradeRepository(db DBTX) TradeRepository {
	return &tradeRepository{db: db}
}

// Create records a trade
func (r *tradeRepository) Create(ctx context.Context, trade *models.Trade) error {
	if trade.ID == uuid.Nil {
		trade.ID = uuid.New()
	}

	query := `
		INSERT INTO trades (id, account_id, symbol, side, amount_cents, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		trade.ID,
		trade.AccountID,
		trade.Symbol,
		trade.Side,
		trade.AmountCents,
		trade.Price,
	).Scan(&trade.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}

	return nil
}

// ListForAccount returns the account's trades for one symbol, oldest first.
func (r *tradeRepository) ListForAccount(ctx context.Context, accountID uuid.UUID, symbol string) ([]*models.Trade, error) {
	query := `
		SELECT id, account_id, symbol, side, amount_cents, price, created_at
		FROM trades
		WHERE account_id = $1 AND symbol = $2
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	defer rows.Close()

	var trades []*models.Trade
	for rows.Next() {
		var trade models.Trade
		err := rows.Scan(
			&trade.ID,
			&trade.AccountID,
			&trade.Symbol,
			&trade.Side,
			&trade.AmountCents,
			&trade.Price,
			&trade.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, &trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades: %w", err)
	}

	return trades, nil
}
