package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sofiamancini/bancore/internal/config"
	"github.com/sofiamancini/bancore/internal/db"
	"github.com/sofiamancini/bancore/internal/idgen"
	"github.com/sofiamancini/bancore/internal/models"
)

// testDB connects to the configured Postgres instance, skipping the test when
// none is reachable so the suite stays runnable without infrastructure.
func testDB(t *testing.T) *db.DB {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err)

	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	require.NoError(t, err)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		t.Skipf("postgres not available: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db.NewTestDB(sqlDB)
}

// seedAccount inserts an account with unique identity fields and registers
// cleanup of everything hanging off it.
func seedAccount(t *testing.T, database *db.DB) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:         "Test Account",
		Email:        fmt.Sprintf("test-%s@example.com", uuid.NewString()),
		PasswordHash: "hashed-password",
		IBAN:         idgen.GenerateIBAN(),
	}
	require.NoError(t, NewAccountRepository(database).Create(context.Background(), account))

	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = database.ExecContext(ctx, `DELETE FROM transactions WHERE account_id = $1`, account.ID)
		_, _ = database.ExecContext(ctx, `DELETE FROM trades WHERE account_id = $1`, account.ID)
		_, _ = database.ExecContext(ctx, `DELETE FROM cards WHERE account_id = $1`, account.ID)
		_, _ = database.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, account.ID)
	})

	return account
}

func seedCard(t *testing.T, database *db.DB, accountID uuid.UUID) *models.Card {
	t.Helper()

	card := &models.Card{
		AccountID:   accountID,
		Number:      idgen.GenerateCardNumber(),
		CVV:         idgen.GenerateCVV(),
		ExpiryMonth: 6,
		ExpiryYear:  2030,
	}
	require.NoError(t, NewCardRepository(database).Create(context.Background(), card))

	return card
}
