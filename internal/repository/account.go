package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sofiamancini/bancore/internal/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByEmailForUpdate(ctx context.Context, email string) (*models.Account, error)
	FindByIBAN(ctx context.Context, iban string) (*models.Account, error)
	AdjustBalance(ctx context.Context, accountID uuid.UUID, deltaCents int64) error
	UpdateLoginState(ctx context.Context, accountID uuid.UUID, failedAttempts int, lockedUntil *time.Time) error
	SetPINHash(ctx context.Context, accountID uuid.UUID, pinHash string) error
	SetPasswordHash(ctx context.Context, accountID uuid.UUID, passwordHash string) error
}

// accountRepository implements AccountRepository
type accountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new AccountRepository bound to a pool or tx
func NewAccountRepository(db DBTX) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, name, email, password_hash, pin_hash, iban,
	balance_cents, failed_attempts, locked_until, created_at, updated_at`

// Create inserts a new account. Unique violations on email and IBAN are
// mapped to models.ErrDuplicateEmail and models.ErrDuplicateIBAN.
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	query := `
		INSERT INTO accounts (id, name, email, password_hash, iban, balance_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.IBAN,
		account.BalanceCents,
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	switch violatedConstraint(err) {
	case "accounts_email_key":
		return models.ErrDuplicateEmail
	case "accounts_iban_key":
		return models.ErrDuplicateIBAN
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// FindByID retrieves an account by its UUID
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// FindByIDForUpdate retrieves an account by UUID holding a row lock for the
// duration of the surrounding transaction
func (r *accountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// FindByEmail retrieves an account by its email address
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

// FindByEmailForUpdate retrieves an account by email holding a row lock.
// Used by the login path so the failed-attempt counter update serializes.
func (r *accountRepository) FindByEmailForUpdate(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1 FOR UPDATE`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

// FindByIBAN retrieves an account by its IBAN
func (r *accountRepository) FindByIBAN(ctx context.Context, iban string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE iban = $1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, iban))
}

// AdjustBalance applies a signed delta to the account balance. The schema's
// non-negative check backs the service-level funds check.
func (r *accountRepository) AdjustBalance(ctx context.Context, accountID uuid.UUID, deltaCents int64) error {
	query := `
		UPDATE accounts
		SET balance_cents = balance_cents + $2,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, accountID, deltaCents)
	if err != nil {
		return fmt.Errorf("failed to adjust account balance: %w", err)
	}

	return requireOneRow(result)
}

// UpdateLoginState persists the failed-attempt counter and lock expiry.
func (r *accountRepository) UpdateLoginState(ctx context.Context, accountID uuid.UUID, failedAttempts int, lockedUntil *time.Time) error {
	query := `
		UPDATE accounts
		SET failed_attempts = $2,
		    locked_until = $3,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, accountID, failedAttempts, lockedUntil)
	if err != nil {
		return fmt.Errorf("failed to update login state: %w", err)
	}

	return requireOneRow(result)
}

// SetPINHash stores a new PIN hash for the account.
func (r *accountRepository) SetPINHash(ctx context.Context, accountID uuid.UUID, pinHash string) error {
	query := `UPDATE accounts SET pin_hash = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, accountID, pinHash)
	if err != nil {
		return fmt.Errorf("failed to set pin hash: %w", err)
	}

	return requireOneRow(result)
}

// SetPasswordHash stores a new credential hash for the account.
func (r *accountRepository) SetPasswordHash(ctx context.Context, accountID uuid.UUID, passwordHash string) error {
	query := `UPDATE accounts SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, accountID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to set password hash: %w", err)
	}

	return requireOneRow(result)
}

func (r *accountRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.PINHash,
		&account.IBAN,
		&account.BalanceCents,
		&account.FailedAttempts,
		&account.LockedUntil,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	return &account, nil
}

func requireOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
