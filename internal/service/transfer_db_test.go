package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofiamancini/bancore/internal/config"
	"github.com/sofiamancini/bancore/internal/db"
	"github.com/sofiamancini/bancore/internal/idgen"
	"github.com/sofiamancini/bancore/internal/models"
	"github.com/sofiamancini/bancore/internal/repository"
)

// ledgerTestDB connects to the configured Postgres instance, skipping the
// test when none is reachable.
func ledgerTestDB(t *testing.T) *db.DB {
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

// seedLedgerAccount inserts an account with an optional PIN and registers
// cleanup of its rows.
func seedLedgerAccount(t *testing.T, database *db.DB, balanceCents int64, pin string) *models.Account {
	t.Helper()

	repo := repository.NewAccountRepository(database)
	account := &models.Account{
		Name:         "Ledger Test",
		Email:        fmt.Sprintf("ledger-%s@example.com", uuid.NewString()),
		PasswordHash: "hashed:password",
		IBAN:         idgen.GenerateIBAN(),
		BalanceCents: balanceCents,
	}
	require.NoError(t, repo.Create(context.Background(), account))
	if pin != "" {
		require.NoError(t, repo.SetPINHash(context.Background(), account.ID, "hashed:"+pin))
	}

	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = database.ExecContext(ctx, `DELETE FROM transactions WHERE account_id = $1`, account.ID)
		_, _ = database.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, account.ID)
	})

	return account
}

// failSecondCreate passes the first ledger insert through and fails the next
// one, so a two-leg transfer dies between its legs.
type failSecondCreate struct {
	repository.TransactionRepository
	calls int
}

func (r *failSecondCreate) Create(ctx context.Context, txn *models.Transaction) error {
	r.calls++
	if r.calls == 2 {
		return sql.ErrConnDone
	}
	return r.TransactionRepository.Create(ctx, txn)
}

func TestTransferService_Transfer_CommitsBothLegs(t *testing.T) {
	ctx := context.Background()
	database := ledgerTestDB(t)
	service := NewTransferService(database, stubVerifier{}, discardLogger())

	sender := seedLedgerAccount(t, database, 10000, "1234")
	recipient := seedLedgerAccount(t, database, 500, "")

	outTxn, inTxn, err := service.Transfer(ctx, sender.ID, recipient.IBAN, 4000, "1234")
	require.NoError(t, err)
	require.NotNil(t, inTxn)
	assert.Equal(t, int64(-4000), outTxn.AmountCents)
	assert.Equal(t, int64(4000), inTxn.AmountCents)

	accounts := repository.NewAccountRepository(database)
	senderAfter, err := accounts.FindByID(ctx, sender.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6000), senderAfter.BalanceCents)

	recipientAfter, err := accounts.FindByID(ctx, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), recipientAfter.BalanceCents)

	txns := repository.NewTransactionRepository(database)
	senderLedger, err := txns.ListForAccount(ctx, sender.ID)
	require.NoError(t, err)
	require.Len(t, senderLedger, 1)
	assert.Equal(t, int64(6000), senderLedger[0].BalanceAfterCents)

	recipientLedger, err := txns.ListForAccount(ctx, recipient.ID)
	require.NoError(t, err)
	require.Len(t, recipientLedger, 1)
	assert.Equal(t, int64(4500), recipientLedger[0].BalanceAfterCents)
}

// A failure on the incoming leg must roll back the already-applied debit,
// the credit and the outgoing ledger entry.
func TestTransferService_Transfer_FailedSecondLegRollsBack(t *testing.T) {
	ctx := context.Background()
	database := ledgerTestDB(t)
	service := NewTransferService(database, stubVerifier{}, discardLogger())

	sender := seedLedgerAccount(t, database, 10000, "1234")
	recipient := seedLedgerAccount(t, database, 500, "")

	err := service.inTx(ctx, func(accounts repository.AccountRepository, _ repository.CardRepository, txns repository.TransactionRepository) error {
		_, _, err := service.performTransfer(ctx, accounts, &failSecondCreate{TransactionRepository: txns}, sender.ID, recipient.IBAN, 4000, "1234")
		assertCode(t, err, ErrCodeInternalError)
		return err
	})
	assertCode(t, err, ErrCodeInternalError)

	accounts := repository.NewAccountRepository(database)
	senderAfter, err := accounts.FindByID(ctx, sender.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), senderAfter.BalanceCents, "debit must not survive the abort")

	recipientAfter, err := accounts.FindByID(ctx, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), recipientAfter.BalanceCents, "credit must not survive the abort")

	txns := repository.NewTransactionRepository(database)
	for _, id := range []uuid.UUID{sender.ID, recipient.ID} {
		ledger, err := txns.ListForAccount(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, ledger, "no ledger entry may survive the abort")
	}
}
