package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofiamancini/bancore/internal/models"
)

type fakeOracle struct {
	prices map[string]float64
	err    error
}

func (f *fakeOracle) CryptoPrice(_ context.Context, coinID, _ string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	price, ok := f.prices[coinID]
	if !ok {
		return 0, errors.New("no price for " + coinID)
	}
	return price, nil
}

func (f *fakeOracle) FXRate(_ context.Context, _, _ string) (float64, string, error) {
	if f.err != nil {
		return 0, "", f.err
	}
	return 1.08, "2025-06-01", nil
}

func TestTradeService_Place_Validation(t *testing.T) {
	ctx := context.Background()
	service := NewTradeService(nil, &fakeOracle{prices: map[string]float64{"bitcoin": 65000}}, discardLogger())
	accountID := uuid.New()

	_, err := service.Place(ctx, accountID, "bitcoin", models.TradeSideBuy, 0)
	assertCode(t, err, ErrCodeInvalidAmount)

	_, err = service.Place(ctx, accountID, "   ", models.TradeSideBuy, 1000)
	assertCode(t, err, ErrCodeInvalidInput)

	_, err = service.Place(ctx, accountID, "bitcoin", models.TradeSide("short"), 1000)
	assertCode(t, err, ErrCodeInvalidInput)
}

func TestTradeService_Place_OracleFailure(t *testing.T) {
	ctx := context.Background()
	service := NewTradeService(nil, &fakeOracle{err: errors.New("upstream down")}, discardLogger())

	_, err := service.Place(ctx, uuid.New(), "bitcoin", models.TradeSideBuy, 1000)
	assertCode(t, err, ErrCodePriceUnavailable)
}

func TestTradeService_Quote(t *testing.T) {
	ctx := context.Background()
	service := NewTradeService(nil, &fakeOracle{prices: map[string]float64{"ethereum": 3500.25}}, discardLogger())

	price, err := service.Quote(ctx, "ethereum", "usd")
	require.NoError(t, err)
	assert.Equal(t, 3500.25, price)

	_, err = service.Quote(ctx, "dogecoin", "usd")
	assertCode(t, err, ErrCodePriceUnavailable)
}
