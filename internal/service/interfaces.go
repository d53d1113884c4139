package service

import (
	"context"

	"github.com/sofiamancini/bancore/internal/password"
	"github.com/sofiamancini/bancore/internal/prices"
)

// CredentialVerifier is the opaque hashing capability used for passwords
// and PINs.
type CredentialVerifier interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// PriceOracle returns spot quotes for trade valuation.
type PriceOracle interface {
	CryptoPrice(ctx context.Context, coinID, vs string) (float64, error)
	FXRate(ctx context.Context, base, quote string) (float64, string, error)
}

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Ensure concrete types implement interfaces
var (
	_ CredentialVerifier = (*password.Hasher)(nil)
	_ PriceOracle        = (*prices.Client)(nil)
)
