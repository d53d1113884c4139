package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sofiamancini/bancore/internal/models"
)

// fakeStore is an in-memory stand-in for the durable store, used where a
// scenario needs stateful reads and writes across several operations.
type fakeStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*models.Account
	cards    map[uuid.UUID]*models.Card
	txns     []*models.Transaction

	// failTxnCreate makes the next transaction insert fail, for verifying
	// that a failed leg aborts the whole operation.
	failTxnCreate error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: make(map[uuid.UUID]*models.Account),
		cards:    make(map[uuid.UUID]*models.Card),
	}
}

func (f *fakeStore) addAccount(account *models.Account) *models.Account {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	f.accounts[account.ID] = account
	return account
}

func (f *fakeStore) accountRepo() *fakeAccountRepo { return &fakeAccountRepo{store: f} }
func (f *fakeStore) cardRepo() *fakeCardRepo       { return &fakeCardRepo{store: f} }
func (f *fakeStore) txnRepo() *fakeTxnRepo         { return &fakeTxnRepo{store: f} }

type fakeAccountRepo struct{ store *fakeStore }

func (r *fakeAccountRepo) Create(_ context.Context, account *models.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.accounts {
		if existing.Email == account.Email {
			return models.ErrDuplicateEmail
		}
		if existing.IBAN == account.IBAN {
			return models.ErrDuplicateIBAN
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	stored := *account
	r.store.accounts[account.ID] = &stored
	return nil
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	account, ok := r.store.accounts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, account := range r.store.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeAccountRepo) FindByEmailForUpdate(ctx context.Context, email string) (*models.Account, error) {
	return r.FindByEmail(ctx, email)
}

func (r *fakeAccountRepo) FindByIBAN(_ context.Context, iban string) (*models.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, account := range r.store.accounts {
		if account.IBAN == iban {
			copied := *account
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeAccountRepo) AdjustBalance(_ context.Context, accountID uuid.UUID, deltaCents int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	account, ok := r.store.accounts[accountID]
	if !ok {
		return models.ErrNotFound
	}
	if account.BalanceCents+deltaCents < 0 {
		return fmt.Errorf("balance check constraint violated")
	}
	account.BalanceCents += deltaCents
	return nil
}

func (r *fakeAccountRepo) UpdateLoginState(_ context.Context, accountID uuid.UUID, failedAttempts int, lockedUntil *time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	account, ok := r.store.accounts[accountID]
	if !ok {
		return models.ErrNotFound
	}
	account.FailedAttempts = failedAttempts
	account.LockedUntil = lockedUntil
	return nil
}

func (r *fakeAccountRepo) SetPINHash(_ context.Context, accountID uuid.UUID, pinHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	account, ok := r.store.accounts[accountID]
	if !ok {
		return models.ErrNotFound
	}
	account.PINHash = &pinHash
	return nil
}

func (r *fakeAccountRepo) SetPasswordHash(_ context.Context, accountID uuid.UUID, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	account, ok := r.store.accounts[accountID]
	if !ok {
		return models.ErrNotFound
	}
	account.PasswordHash = passwordHash
	return nil
}

type fakeCardRepo struct{ store *fakeStore }

func (r *fakeCardRepo) Create(_ context.Context, card *models.Card) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.cards {
		if existing.Number == card.Number {
			return models.ErrDuplicateCardNumber
		}
	}
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	stored := *card
	r.store.cards[card.ID] = &stored
	return nil
}

func (r *fakeCardRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Card, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	card, ok := r.store.cards[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *card
	return &copied, nil
}

func (r *fakeCardRepo) FindByAccountID(_ context.Context, accountID uuid.UUID) (*models.Card, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, card := range r.store.cards {
		if card.AccountID == accountID {
			copied := *card
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeCardRepo) FindByNumber(_ context.Context, number string) (*models.Card, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, card := range r.store.cards {
		if card.Number == number {
			copied := *card
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeCardRepo) SetBlocked(_ context.Context, id uuid.UUID, blocked bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	card, ok := r.store.cards[id]
	if !ok {
		return models.ErrNotFound
	}
	card.Blocked = blocked
	return nil
}

type fakeTxnRepo struct{ store *fakeStore }

func (r *fakeTxnRepo) Create(_ context.Context, txn *models.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failTxnCreate; err != nil {
		r.store.failTxnCreate = nil
		return err
	}
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	stored := *txn
	r.store.txns = append(r.store.txns, &stored)
	return nil
}

func (r *fakeTxnRepo) ListForAccount(_ context.Context, accountID uuid.UUID) ([]*models.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*models.Transaction
	// Newest first, insertion order breaking ties.
	for i := len(r.store.txns) - 1; i >= 0; i-- {
		if r.store.txns[i].AccountID == accountID {
			copied := *r.store.txns[i]
			result = append(result, &copied)
		}
	}
	return result, nil
}
