package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	TransactionKindDeposit  TransactionKind = "deposit"
	TransactionKindWithdraw TransactionKind = "withdraw"
	TransactionKindTransfer TransactionKind = "transfer"
)

// Transfer leg categories.
const (
	CategoryTransferOut = "transfer_out"
	CategoryTransferIn  = "transfer_in"
)

// Transaction is one immutable ledger entry. Amount is signed: positive for
// credits, negative for debits. BalanceAfterCents snapshots the account
// balance immediately after the entry was applied; replaying amounts over
// these snapshots must reproduce each one exactly.
type Transaction struct {
	CreatedAt         time.Time       `db:"created_at"`
	Category          *string         `db:"category"`
	Detail            *string         `db:"detail"`
	Kind              TransactionKind `db:"kind"`
	AmountCents       int64           `db:"amount_cents"`
	BalanceAfterCents int64           `db:"balance_after_cents"`
	ID                uuid.UUID       `db:"id"`
	AccountID         uuid.UUID       `db:"account_id"`
}
