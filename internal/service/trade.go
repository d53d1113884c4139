package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sofiamancini/bancore/internal/db"
	"github.com/sofiamancini/bancore/internal/models"
	"github.com/sofiamancini/bancore/internal/repository"
)

// TradeService records crypto trades against price-oracle quotes. Trades are
// bookkeeping only and never touch account balances or the ledger.
type TradeService struct {
	db     *db.DB
	oracle PriceOracle
	logger *slog.Logger
}

// NewTradeService creates a new TradeService
func NewTradeService(database *db.DB, oracle PriceOracle, logger *slog.Logger) *TradeService {
	return &TradeService{
		db:     database,
		oracle: oracle,
		logger: logger,
	}
}

// Place fetches the current quote for symbol and records a trade at it.
// Oracle failures are surfaced to the caller and leave no record.
func (s *TradeService) Place(ctx context.Context, accountID uuid.UUID, symbol string, side models.TradeSide, amountCents int64) (*models.Trade, error) {
	if err := ValidateAmount(amountCents); err != nil {
		return nil, err
	}

	symbol = strings.ToLower(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, &ServiceError{Code: ErrCodeInvalidInput, Message: "symbol is required"}
	}
	if side != models.TradeSideBuy && side != models.TradeSideSell {
		return nil, &ServiceError{Code: ErrCodeInvalidInput, Message: "side must be buy or sell"}
	}

	price, err := s.oracle.CryptoPrice(ctx, symbol, "usd")
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodePriceUnavailable,
			Message: "could not fetch a price for " + symbol,
			Err:     err,
		}
	}

	trade := &models.Trade{
		AccountID:   accountID,
		Symbol:      symbol,
		Side:        side,
		AmountCents: amountCents,
		Price:       price,
	}
	if err := repository.NewTradeRepository(s.db).Create(ctx, trade); err != nil {
		return nil, internalError("failed to record trade", err)
	}

	s.logger.Info("trade recorded",
		"account_id", accountID,
		"symbol", symbol,
		"side", side,
		"price", price,
	)

	return trade, nil
}

// ListTrades returns the account's trades for one symbol, oldest first.
func (s *TradeService) ListTrades(ctx context.Context, accountID uuid.UUID, symbol string) ([]*models.Trade, error) {
	trades, err := repository.NewTradeRepository(s.db).ListForAccount(ctx, accountID, strings.ToLower(strings.TrimSpace(symbol)))
	if err != nil {
		return nil, internalError("failed to list trades", err)
	}
	return trades, nil
}

// Quote exposes the oracle to the presentation layer.
func (s *TradeService) Quote(ctx context.Context, symbol, vs string) (float64, error) {
	price, err := s.oracle.CryptoPrice(ctx, symbol, vs)
	if err != nil {
		return 0, &ServiceError{
			Code:    ErrCodePriceUnavailable,
			Message: "could not fetch a price for " + symbol,
			Err:     err,
		}
	}
	return price, nil
}
