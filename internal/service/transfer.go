package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sofiamancini/bancore/internal/db"
	"github.com/sofiamancini/bancore/internal/models"
	"github.com/sofiamancini/bancore/internal/repository"
)

// TransferService is the ledger's only writer: deposits, withdrawals and
// IBAN transfers. Every operation commits its balance mutations and ledger
// entries as one database transaction.
type TransferService struct {
	db       *db.DB
	verifier CredentialVerifier
	logger   *slog.Logger
}

// NewTransferService creates a new TransferService
func NewTransferService(database *db.DB, verifier CredentialVerifier, logger *slog.Logger) *TransferService {
	return &TransferService{
		db:       database,
		verifier: verifier,
		logger:   logger,
	}
}

// Deposit credits the account and appends a deposit entry.
func (s *TransferService) Deposit(ctx context.Context, accountID uuid.UUID, amountCents int64, pin string) (*models.Transaction, error) {
	if err := ValidateAmount(amountCents); err != nil {
		return nil, err
	}

	var txn *models.Transaction
	err := s.inTx(ctx, func(accounts repository.AccountRepository, cards repository.CardRepository, txns repository.TransactionRepository) error {
		var err error
		txn, err = s.performDeposit(ctx, accounts, cards, txns, accountID, amountCents, pin)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deposit applied", "account_id", accountID, "amount_cents", amountCents)

	return txn, nil
}

// Withdraw debits the account and appends a withdraw entry. Funds sufficiency
// is checked before the PIN, matching the established flow.
func (s *TransferService) Withdraw(ctx context.Context, accountID uuid.UUID, amountCents int64, pin string) (*models.Transaction, error) {
	if err := ValidateAmount(amountCents); err != nil {
		return nil, err
	}

	var txn *models.Transaction
	err := s.inTx(ctx, func(accounts repository.AccountRepository, cards repository.CardRepository, txns repository.TransactionRepository) error {
		var err error
		txn, err = s.performWithdraw(ctx, accounts, cards, txns, accountID, amountCents, pin)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal applied", "account_id", accountID, "amount_cents", amountCents)

	return txn, nil
}

// Transfer moves money from sender to the account holding recipientIBAN.
// When the IBAN resolves to a managed account both legs commit atomically;
// an unrecognized IBAN debits the sender only, modelling an external-bank
// transfer. The second return value is nil for external transfers.
func (s *TransferService) Transfer(ctx context.Context, senderID uuid.UUID, recipientIBAN string, amountCents int64, pin string) (*models.Transaction, *models.Transaction, error) {
	if err := ValidateAmount(amountCents); err != nil {
		return nil, nil, err
	}
	if recipientIBAN == "" {
		return nil, nil, &ServiceError{
			Code:    ErrCodeInvalidInput,
			Message: "recipient IBAN is required",
		}
	}

	var outTxn, inTxn *models.Transaction
	err := s.inTx(ctx, func(accounts repository.AccountRepository, cards repository.CardRepository, txns repository.TransactionRepository) error {
		var err error
		outTxn, inTxn, err = s.performTransfer(ctx, accounts, txns, senderID, recipientIBAN, amountCents, pin)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("transfer applied",
		"sender_id", senderID,
		"recipient_iban", recipientIBAN,
		"amount_cents", amountCents,
		"external", inTxn == nil,
	)

	return outTxn, inTxn, nil
}

// inTx runs fn with transaction-bound repositories and commits on success.
func (s *TransferService) inTx(ctx context.Context, fn func(repository.AccountRepository, repository.CardRepository, repository.TransactionRepository) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return internalError("failed to start transaction", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	err = fn(
		repository.NewAccountRepository(tx),
		repository.NewCardRepository(tx),
		repository.NewTransactionRepository(tx),
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return internalError("failed to commit transaction", err)
	}

	return nil
}

// performDeposit contains the core deposit logic.
func (s *TransferService) performDeposit(
	ctx context.Context,
	accounts repository.AccountRepository,
	cards repository.CardRepository,
	txns repository.TransactionRepository,
	accountID uuid.UUID,
	amountCents int64,
	pin string,
) (*models.Transaction, error) {
	account, err := s.lockAccount(ctx, accounts, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.gateCardAndPIN(ctx, cards, account, pin); err != nil {
		return nil, err
	}

	if err := accounts.AdjustBalance(ctx, account.ID, amountCents); err != nil {
		return nil, internalError("failed to credit account", err)
	}

	txn := &models.Transaction{
		AccountID:         account.ID,
		AmountCents:       amountCents,
		Kind:              models.TransactionKindDeposit,
		BalanceAfterCents: account.BalanceCents + amountCents,
	}
	if err := txns.Create(ctx, txn); err != nil {
		return nil, internalError("failed to record transaction", err)
	}

	return txn, nil
}

// performWithdraw contains the core withdrawal logic.
func (s *TransferService) performWithdraw(
	ctx context.Context,
	accounts repository.AccountRepository,
	cards repository.CardRepository,
	txns repository.TransactionRepository,
	accountID uuid.UUID,
	amountCents int64,
	pin string,
) (*models.Transaction, error) {
	account, err := s.lockAccount(ctx, accounts, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.gateCard(ctx, cards, account.ID); err != nil {
		return nil, err
	}
	if !account.HasPIN() {
		return nil, &ServiceError{Code: ErrCodePINNotSet, Message: "set a PIN first"}
	}

	// Funds before PIN: the PIN is only checked once the amount is coverable.
	if amountCents > account.BalanceCents {
		return nil, &ServiceError{Code: ErrCodeInsufficientFunds, Message: "insufficient funds"}
	}

	if !s.verifier.Verify(pin, *account.PINHash) {
		return nil, &ServiceError{Code: ErrCodeInvalidPIN, Message: "incorrect PIN"}
	}

	if err := accounts.AdjustBalance(ctx, account.ID, -amountCents); err != nil {
		return nil, internalError("failed to debit account", err)
	}

	txn := &models.Transaction{
		AccountID:         account.ID,
		AmountCents:       -amountCents,
		Kind:              models.TransactionKindWithdraw,
		BalanceAfterCents: account.BalanceCents - amountCents,
	}
	if err := txns.Create(ctx, txn); err != nil {
		return nil, internalError("failed to record transaction", err)
	}

	return txn, nil
}

// performTransfer contains the core transfer logic.
func (s *TransferService) performTransfer(
	ctx context.Context,
	accounts repository.AccountRepository,
	txns repository.TransactionRepository,
	senderID uuid.UUID,
	recipientIBAN string,
	amountCents int64,
	pin string,
) (*models.Transaction, *models.Transaction, error) {
	sender, err := accounts.FindByID(ctx, senderID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil, &ServiceError{Code: ErrCodeAccountNotFound, Message: "account not found"}
	}
	if err != nil {
		return nil, nil, internalError("failed to find sender", err)
	}

	if recipientIBAN == sender.IBAN {
		return nil, nil, &ServiceError{Code: ErrCodeSelfTransfer, Message: "cannot transfer to your own IBAN"}
	}

	recipient, err := accounts.FindByIBAN(ctx, recipientIBAN)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, nil, internalError("failed to resolve recipient", err)
	}

	sender, recipient, err = s.lockTransferPair(ctx, accounts, senderID, recipient)
	if err != nil {
		return nil, nil, err
	}

	if !sender.HasPIN() {
		return nil, nil, &ServiceError{Code: ErrCodePINNotSet, Message: "set a PIN first"}
	}
	if amountCents > sender.BalanceCents {
		return nil, nil, &ServiceError{Code: ErrCodeInsufficientFunds, Message: "insufficient funds"}
	}
	if !s.verifier.Verify(pin, *sender.PINHash) {
		return nil, nil, &ServiceError{Code: ErrCodeInvalidPIN, Message: "incorrect PIN"}
	}

	if err := accounts.AdjustBalance(ctx, sender.ID, -amountCents); err != nil {
		return nil, nil, internalError("failed to debit sender", err)
	}

	outDetail := fmt.Sprintf("to external IBAN (%s), funds left the bank", recipientIBAN)
	if recipient != nil {
		outDetail = fmt.Sprintf("to %s (%s)", recipient.Name, recipientIBAN)
	}
	outTxn := &models.Transaction{
		AccountID:         sender.ID,
		AmountCents:       -amountCents,
		Kind:              models.TransactionKindTransfer,
		Category:          ptr(models.CategoryTransferOut),
		Detail:            &outDetail,
		BalanceAfterCents: sender.BalanceCents - amountCents,
	}
	if err := txns.Create(ctx, outTxn); err != nil {
		return nil, nil, internalError("failed to record outgoing transaction", err)
	}

	if recipient == nil {
		return outTxn, nil, nil
	}

	if err := accounts.AdjustBalance(ctx, recipient.ID, amountCents); err != nil {
		return nil, nil, internalError("failed to credit recipient", err)
	}

	inDetail := fmt.Sprintf("from %s (%s)", sender.Name, sender.IBAN)
	inTxn := &models.Transaction{
		AccountID:         recipient.ID,
		AmountCents:       amountCents,
		Kind:              models.TransactionKindTransfer,
		Category:          ptr(models.CategoryTransferIn),
		Detail:            &inDetail,
		BalanceAfterCents: recipient.BalanceCents + amountCents,
	}
	if err := txns.Create(ctx, inTxn); err != nil {
		return nil, nil, internalError("failed to record incoming transaction", err)
	}

	return outTxn, inTxn, nil
}

// lockTransferPair acquires row locks on the sender and, when the recipient
// is a managed account, on the recipient too, always in ascending id order
// so concurrent opposite-direction transfers cannot deadlock.
func (s *TransferService) lockTransferPair(
	ctx context.Context,
	accounts repository.AccountRepository,
	senderID uuid.UUID,
	recipient *models.Account,
) (*models.Account, *models.Account, error) {
	if recipient == nil {
		sender, err := s.lockAccount(ctx, accounts, senderID)
		return sender, nil, err
	}

	firstID, secondID := senderID, recipient.ID
	if bytes.Compare(secondID[:], firstID[:]) < 0 {
		firstID, secondID = secondID, firstID
	}

	first, err := s.lockAccount(ctx, accounts, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := s.lockAccount(ctx, accounts, secondID)
	if err != nil {
		return nil, nil, err
	}

	if first.ID == senderID {
		return first, second, nil
	}
	return second, first, nil
}

func (s *TransferService) lockAccount(ctx context.Context, accounts repository.AccountRepository, accountID uuid.UUID) (*models.Account, error) {
	account, err := accounts.FindByIDForUpdate(ctx, accountID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{Code: ErrCodeAccountNotFound, Message: "account not found"}
	}
	if err != nil {
		return nil, internalError("failed to lock account", err)
	}
	return account, nil
}

// gateCard rejects the operation when the account's card is blocked. Accounts
// without a card pass.
func (s *TransferService) gateCard(ctx context.Context, cards repository.CardRepository, accountID uuid.UUID) error {
	card, err := cards.FindByAccountID(ctx, accountID)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return internalError("failed to find card", err)
	}
	if card.Blocked {
		return &ServiceError{Code: ErrCodeCardBlocked, Message: "operation not allowed, your card is blocked"}
	}
	return nil
}

// gateCardAndPIN runs the card gate, PIN presence and PIN verification in
// the order used by deposits.
func (s *TransferService) gateCardAndPIN(ctx context.Context, cards repository.CardRepository, account *models.Account, pin string) error {
	if err := s.gateCard(ctx, cards, account.ID); err != nil {
		return err
	}
	if !account.HasPIN() {
		return &ServiceError{Code: ErrCodePINNotSet, Message: "set a PIN first"}
	}
	if !s.verifier.Verify(pin, *account.PINHash) {
		return &ServiceError{Code: ErrCodeInvalidPIN, Message: "incorrect PIN"}
	}
	return nil
}

func ptr(s string) *string {
	return &s
}
