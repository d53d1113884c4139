package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sofiamancini/bancore/internal/models"
)

// CardRepository defines the interface for card data access
type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error)
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*models.Card, error)
	FindByNumber(ctx context.Context, number string) (*models.Card, error)
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
}

type cardRepository struct {
	db DBTX
}

// NewCardRepository creates a new CardRepository bound to a pool or tx
func NewCardRepository(db DBTX) CardRepository {
	return &cardRepository{db: db}
}

const cardColumns = `id, account_id, number, cvv, expiry_month, expiry_year, blocked, created_at`

// Create inserts a new card. A unique violation on the card number is mapped
// to models.ErrDuplicateCardNumber so issuance can resample.
func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}

	query := `
		INSERT INTO cards (id, account_id, number, cvv, expiry_month, expiry_year, blocked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		card.ID,
		card.AccountID,
		card.Number,
		card.CVV,
		card.ExpiryMonth,
		card.ExpiryYear,
		card.Blocked,
	).Scan(&card.CreatedAt)

	if violatedConstraint(err) == "cards_number_key" {
		return models.ErrDuplicateCardNumber
	}
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	return nil
}

// FindByID retrieves a card by its UUID
func (r *cardRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`
	return r.scanCard(r.db.QueryRowContext(ctx, query, id))
}

// FindByAccountID retrieves the card issued for an account. Accounts are
// issued exactly one card at registration; the oldest wins if more exist.
func (r *cardRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE account_id = $1 ORDER BY created_at LIMIT 1`
	return r.scanCard(r.db.QueryRowContext(ctx, query, accountID))
}

// FindByNumber retrieves a card by its 16-digit number
func (r *cardRepository) FindByNumber(ctx context.Context, number string) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE number = $1`
	return r.scanCard(r.db.QueryRowContext(ctx, query, number))
}

// SetBlocked sets the blocked flag. Idempotent: re-blocking a blocked card
// succeeds without effect.
func (r *cardRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	query := `UPDATE cards SET blocked = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, blocked)
	if err != nil {
		return fmt.Errorf("failed to set card blocked flag: %w", err)
	}

	return requireOneRow(result)
}

func (r *cardRepository) scanCard(row *sql.Row) (*models.Card, error) {
	var card models.Card
	err := row.Scan(
		&card.ID,
		&card.AccountID,
		&card.Number,
		&card.CVV,
		&card.ExpiryMonth,
		&card.ExpiryYear,
		&card.Blocked,
		&card.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan card: %w", err)
	}

	return &card, nil
}
