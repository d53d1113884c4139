// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/sofiamancini/bancore/internal/models"
)

// MockAccountRepository is a mock implementation of repository.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

// NewMockAccountRepository creates a new mock wired to the test lifecycle
func NewMockAccountRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAccountRepository) Create(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	args := m.Called(ctx, id)
	return accountOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAccountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	args := m.Called(ctx, id)
	return accountOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	return accountOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAccountRepository) FindByEmailForUpdate(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	return accountOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAccountRepository) FindByIBAN(ctx context.Context, iban string) (*models.Account, error) {
	args := m.Called(ctx, iban)
	return accountOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAccountRepository) AdjustBalance(ctx context.Context, accountID uuid.UUID, deltaCents int64) error {
	args := m.Called(ctx, accountID, deltaCents)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateLoginState(ctx context.Context, accountID uuid.UUID, failedAttempts int, lockedUntil *time.Time) error {
	args := m.Called(ctx, accountID, failedAttempts, lockedUntil)
	return args.Error(0)
}

func (m *MockAccountRepository) SetPINHash(ctx context.Context, accountID uuid.UUID, pinHash string) error {
	args := m.Called(ctx, accountID, pinHash)
	return args.Error(0)
}

func (m *MockAccountRepository) SetPasswordHash(ctx context.Context, accountID uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, accountID, passwordHash)
	return args.Error(0)
}

func accountOrNil(v any) *models.Account {
	if v == nil {
		return nil
	}
	return v.(*models.Account)
}
