package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/sofiamancini/bancore/internal/config"
	"github.com/sofiamancini/bancore/internal/db"
	"github.com/sofiamancini/bancore/internal/idgen"
	"github.com/sofiamancini/bancore/internal/models"
	"github.com/sofiamancini/bancore/internal/notify"
	"github.com/sofiamancini/bancore/internal/repository"
)

// maxGenerationAttempts bounds IBAN and card-number resampling on collision.
const maxGenerationAttempts = 10

const resetTokenSalt = "reset-password"

// AccountService owns account registration, lookups, PIN and password
// management, and card block state.
type AccountService struct {
	db          *db.DB
	verifier    CredentialVerifier
	sink        notify.Sink
	logger      *slog.Logger
	now         func() time.Time
	resetSecret []byte
	resetTTL    time.Duration
}

// NewAccountService creates a new AccountService
func NewAccountService(
	database *db.DB,
	verifier CredentialVerifier,
	sink notify.Sink,
	cfg *config.AuthConfig,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		db:          database,
		verifier:    verifier,
		sink:        sink,
		logger:      logger,
		now:         time.Now,
		resetSecret: []byte(cfg.ResetTokenSecret),
		resetTTL:    cfg.ResetTokenTTL,
	}
}

// Register creates an account with a fresh unique IBAN, a zero balance and
// one issued card. The account has no PIN until SetPIN is called; money
// operations are refused until then.
func (s *AccountService) Register(ctx context.Context, name, email, passwd string) (*models.Account, *models.Card, error) {
	if name == "" || email == "" || passwd == "" {
		return nil, nil, &ServiceError{
			Code:    ErrCodeInvalidInput,
			Message: "name, email and password are required",
		}
	}

	passwordHash, err := s.verifier.Hash(passwd)
	if err != nil {
		return nil, nil, internalError("failed to hash password", err)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, nil, internalError("failed to start transaction", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	account, card, err := s.performRegister(ctx,
		repository.NewAccountRepository(tx),
		repository.NewCardRepository(tx),
		name, email, passwordHash,
	)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, internalError("failed to commit transaction", err)
	}

	s.logger.Info("account registered", "account_id", account.ID, "iban", account.IBAN)

	return account, card, nil
}

// performRegister contains the core registration logic: uniqueness prechecks,
// account insert and card issuance, all in the caller's transaction.
func (s *AccountService) performRegister(
	ctx context.Context,
	accounts repository.AccountRepository,
	cards repository.CardRepository,
	name, email, passwordHash string,
) (*models.Account, *models.Card, error) {
	if _, err := accounts.FindByEmail(ctx, email); err == nil {
		return nil, nil, &ServiceError{
			Code:    ErrCodeEmailTaken,
			Message: "an account with this email already exists",
		}
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, nil, internalError("failed to check email", err)
	}

	account := &models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
	created := false
	for i := 0; i < maxGenerationAttempts && !created; i++ {
		iban, err := s.uniqueIBAN(ctx, accounts)
		if err != nil {
			return nil, nil, err
		}
		account.IBAN = iban

		err = accounts.Create(ctx, account)
		switch {
		case errors.Is(err, models.ErrDuplicateIBAN):
			// Lost an insert race on the IBAN; resample.
		case errors.Is(err, models.ErrDuplicateEmail):
			return nil, nil, &ServiceError{
				Code:    ErrCodeEmailTaken,
				Message: "an account with this email already exists",
			}
		case err != nil:
			return nil, nil, internalError("failed to create account", err)
		default:
			created = true
		}
	}
	if !created {
		return nil, nil, internalError("could not generate a unique iban", nil)
	}

	card, err := s.issueCard(ctx, cards, account.ID)
	if err != nil {
		return nil, nil, err
	}

	return account, card, nil
}

// uniqueIBAN samples IBANs until one is unused. The account table's unique
// constraint backs this precheck against insert races.
func (s *AccountService) uniqueIBAN(ctx context.Context, accounts repository.AccountRepository) (string, error) {
	for i := 0; i < maxGenerationAttempts; i++ {
		iban := idgen.GenerateIBAN()
		_, err := accounts.FindByIBAN(ctx, iban)
		if errors.Is(err, models.ErrNotFound) {
			return iban, nil
		}
		if err != nil {
			return "", internalError("failed to check iban uniqueness", err)
		}
	}
	return "", internalError("could not generate a unique iban", nil)
}

// issueCard creates the account's card with a fresh unique number, a CVV and
// a 5-year expiry.
func (s *AccountService) issueCard(ctx context.Context, cards repository.CardRepository, accountID uuid.UUID) (*models.Card, error) {
	for i := 0; i < maxGenerationAttempts; i++ {
		number := idgen.GenerateCardNumber()
		_, err := cards.FindByNumber(ctx, number)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, internalError("failed to check card number uniqueness", err)
		}

		month, year := idgen.CardExpiry(s.now())
		card := &models.Card{
			AccountID:   accountID,
			Number:      number,
			CVV:         idgen.GenerateCVV(),
			ExpiryMonth: month,
			ExpiryYear:  year,
		}
		err = cards.Create(ctx, card)
		if errors.Is(err, models.ErrDuplicateCardNumber) {
			// Lost an insert race on the number; resample.
			continue
		}
		if err != nil {
			return nil, internalError("failed to create card", err)
		}
		return card, nil
	}
	return nil, internalError("could not generate a unique card number", nil)
}

// GetAccount retrieves an account by id.
func (s *AccountService) GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	account, err := repository.NewAccountRepository(s.db).FindByID(ctx, accountID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{Code: ErrCodeAccountNotFound, Message: "account not found"}
	}
	if err != nil {
		return nil, internalError("failed to find account", err)
	}
	return account, nil
}

// VerifyPIN reports whether pin matches the account's stored PIN hash. An
// account without a PIN always reports false; verification never errors and
// never mutates state.
func (s *AccountService) VerifyPIN(account *models.Account, pin string) bool {
	if !account.HasPIN() {
		return false
	}
	return s.verifier.Verify(pin, *account.PINHash)
}

// SetPIN hashes and stores a new PIN. An authenticated caller may reset the
// PIN at any time.
func (s *AccountService) SetPIN(ctx context.Context, accountID uuid.UUID, pin string) error {
	if err := ValidatePIN(pin); err != nil {
		return err
	}

	pinHash, err := s.verifier.Hash(pin)
	if err != nil {
		return internalError("failed to hash pin", err)
	}

	err = repository.NewAccountRepository(s.db).SetPINHash(ctx, accountID, pinHash)
	if errors.Is(err, models.ErrNotFound) {
		return &ServiceError{Code: ErrCodeAccountNotFound, Message: "account not found"}
	}
	if err != nil {
		return internalError("failed to store pin", err)
	}

	return nil
}

// ChangePassword replaces the credential hash after verifying the old
// password and the new password's length and confirmation.
func (s *AccountService) ChangePassword(ctx context.Context, accountID uuid.UUID, oldPassword, newPassword, confirm string) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return internalError("failed to start transaction", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	if err := s.performChangePassword(ctx, repository.NewAccountRepository(tx), accountID, oldPassword, newPassword, confirm); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return internalError("failed to commit transaction", err)
	}

	return nil
}

func (s *AccountService) performChangePassword(
	ctx context.Context,
	accounts repository.AccountRepository,
	accountID uuid.UUID,
	oldPassword, newPassword, confirm string,
) error {
	account, err := accounts.FindByIDForUpdate(ctx, accountID)
	if errors.Is(err, models.ErrNotFound) {
		return &ServiceError{Code: ErrCodeAccountNotFound, Message: "account not found"}
	}
	if err != nil {
		return internalError("failed to find account", err)
	}

	if !s.verifier.Verify(oldPassword, account.PasswordHash) {
		return &ServiceError{
			Code:    ErrCodeInvalidCredentials,
			Message: "current password is incorrect",
		}
	}

	if err := ValidateNewPassword(newPassword, confirm); err != nil {
		return err
	}

	newHash, err := s.verifier.Hash(newPassword)
	if err != nil {
		return internalError("failed to hash password", err)
	}

	if err := accounts.SetPasswordHash(ctx, accountID, newHash); err != nil {
		return internalError("failed to store password", err)
	}

	return nil
}

// IssueResetToken mails a signed, time-limited password-reset token to the
// account's email address.
func (s *AccountService) IssueResetToken(ctx context.Context, email string) error {
	account, err := repository.NewAccountRepository(s.db).FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return &ServiceError{Code: ErrCodeAccountNotFound, Message: "no account with this email"}
	}
	if err != nil {
		return internalError("failed to find account", err)
	}

	token, err := s.signResetToken(account.Email)
	if err != nil {
		return internalError("failed to sign reset token", err)
	}

	dispatch(s.logger, s.sink, account.Email, "Password reset request",
		fmt.Sprintf("Use this token to reset your password: %s\nIt expires in %s.", token, s.resetTTL))

	return nil
}

// ResetPassword validates a reset token and stores the new password.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	email, err := s.parseResetToken(token)
	if err != nil {
		return err
	}

	if err := ValidateNewPassword(newPassword, confirm); err != nil {
		return err
	}

	accounts := repository.NewAccountRepository(s.db)
	account, err := accounts.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return &ServiceError{Code: ErrCodeAccountNotFound, Message: "account not found"}
	}
	if err != nil {
		return internalError("failed to find account", err)
	}

	newHash, err := s.verifier.Hash(newPassword)
	if err != nil {
		return internalError("failed to hash password", err)
	}

	if err := accounts.SetPasswordHash(ctx, account.ID, newHash); err != nil {
		return internalError("failed to store password", err)
	}

	return nil
}

func (s *AccountService) signResetToken(email string) (string, error) {
	now := s.now()
	claims := jwt.StandardClaims{
		Subject:   email,
		Audience:  resetTokenSalt,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.resetTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.resetSecret)
}

func (s *AccountService) parseResetToken(token string) (string, error) {
	invalid := &ServiceError{
		Code:    ErrCodeResetTokenInvalid,
		Message: "reset token is invalid or expired",
	}

	claims := &jwt.StandardClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.resetSecret, nil
	})
	if err != nil || !parsed.Valid || claims.Audience != resetTokenSalt || claims.Subject == "" {
		return "", invalid
	}

	return claims.Subject, nil
}

// GetCard retrieves the card issued for an account.
func (s *AccountService) GetCard(ctx context.Context, accountID uuid.UUID) (*models.Card, error) {
	card, err := repository.NewCardRepository(s.db).FindByAccountID(ctx, accountID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{Code: ErrCodeCardNotFound, Message: "no card issued for this account"}
	}
	if err != nil {
		return nil, internalError("failed to find card", err)
	}
	return card, nil
}

// RevealCard returns the card with sensitive details after a PIN check.
func (s *AccountService) RevealCard(ctx context.Context, accountID uuid.UUID, pin string) (*models.Card, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !account.HasPIN() {
		return nil, &ServiceError{Code: ErrCodePINNotSet, Message: "set a PIN first"}
	}
	if !s.verifier.Verify(pin, *account.PINHash) {
		return nil, &ServiceError{Code: ErrCodeInvalidPIN, Message: "incorrect PIN"}
	}

	return s.GetCard(ctx, accountID)
}

// BlockCard sets the blocked flag on a card owned by accountID. Idempotent.
func (s *AccountService) BlockCard(ctx context.Context, accountID, cardID uuid.UUID) error {
	return s.setCardBlocked(ctx, accountID, cardID, true)
}

// UnblockCard clears the blocked flag on a card owned by accountID. Idempotent.
func (s *AccountService) UnblockCard(ctx context.Context, accountID, cardID uuid.UUID) error {
	return s.setCardBlocked(ctx, accountID, cardID, false)
}

func (s *AccountService) setCardBlocked(ctx context.Context, accountID, cardID uuid.UUID, blocked bool) error {
	return s.performSetCardBlocked(ctx, repository.NewCardRepository(s.db), accountID, cardID, blocked)
}

func (s *AccountService) performSetCardBlocked(ctx context.Context, cards repository.CardRepository, accountID, cardID uuid.UUID, blocked bool) error {
	card, err := cards.FindByID(ctx, cardID)
	if errors.Is(err, models.ErrNotFound) {
		return &ServiceError{Code: ErrCodeCardNotFound, Message: "card not found"}
	}
	if err != nil {
		return internalError("failed to find card", err)
	}

	// Cards of other accounts are reported as missing, not as forbidden.
	if card.AccountID != accountID {
		return &ServiceError{Code: ErrCodeCardNotFound, Message: "card not found"}
	}

	if err := cards.SetBlocked(ctx, cardID, blocked); err != nil {
		return internalError("failed to update card", err)
	}

	s.logger.Info("card block state changed", "card_id", cardID, "blocked", blocked)

	return nil
}
