package models

import (
	"time"

	"github.com/google/uuid"
)

// Card is the payment card issued with an account. Exactly one card is
// issued at registration; it is never deleted, only blocked and unblocked.
type Card struct {
	CreatedAt   time.Time `db:"created_at"`
	Number      string    `db:"number"`
	CVV         string    `db:"cvv"`
	ExpiryMonth int       `db:"expiry_month"`
	ExpiryYear  int       `db:"expiry_year"`
	Blocked     bool      `db:"blocked"`
	ID          uuid.UUID `db:"id"`
	AccountID   uuid.UUID `db:"account_id"`
}
