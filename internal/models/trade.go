package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeSide is the direction of a crypto trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// Trade records a crypto trade placed against an oracle quote. Trades are
// bookkeeping only; they do not move ledger balances. Price is the quoted
// unit price in the vs currency, kept as the oracle reports it.
type Trade struct {
	CreatedAt   time.Time `db:"created_at"`
	Symbol      string    `db:"symbol"`
	Side        TradeSide `db:"side"`
	AmountCents int64     `db:"amount_cents"`
	Price       float64   `db:"price"`
	ID          uuid.UUID `db:"id"`
	AccountID   uuid.UUID `db:"account_id"`
}
