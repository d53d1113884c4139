package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a customer account. Balances are stored in euro cents so that
// replaying the transaction log reproduces stored balances exactly.
type Account struct {
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	LockedUntil    *time.Time `db:"locked_until"`
	PINHash        *string    `db:"pin_hash"`
	Name           string     `db:"name"`
	Email          string     `db:"email"`
	PasswordHash   string     `db:"password_hash"`
	IBAN           string     `db:"iban"`
	BalanceCents   int64      `db:"balance_cents"`
	FailedAttempts int        `db:"failed_attempts"`
	ID             uuid.UUID  `db:"id"`
}

// IsLocked reports whether the account is inside a lockout window at now.
func (a *Account) IsLocked(now time.Time) bool {
	return a.LockedUntil != nil && a.LockedUntil.After(now)
}

// HasPIN reports whether a PIN has been set for the account.
func (a *Account) HasPIN() bool {
	return a.PINHash != nil && *a.PINHash != ""
}
