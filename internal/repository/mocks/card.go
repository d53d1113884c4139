package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/sofiamancini/bancore/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

// NewMockCardRepository creates a new mock wired to the test lifecycle
func NewMockCardRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCardRepository {
	m := &MockCardRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCardRepository) Create(ctx context.Context, card *models.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	args := m.Called(ctx, id)
	return cardOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCardRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*models.Card, error) {
	args := m.Called(ctx, accountID)
	return cardOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCardRepository) FindByNumber(ctx context.Context, number string) (*models.Card, error) {
	args := m.Called(ctx, number)
	return cardOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCardRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	args := m.Called(ctx, id, blocked)
	return args.Error(0)
}

func cardOrNil(v any) *models.Card {
	if v == nil {
		return nil
	}
	return v.(*models.Card)
}
