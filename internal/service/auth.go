package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sofiamancini/bancore/internal/config"
	"github.com/sofiamancini/bancore/internal/db"
	"github.com/sofiamancini/bancore/internal/idgen"
	"github.com/sofiamancini/bancore/internal/models"
	"github.com/sofiamancini/bancore/internal/notify"
	"github.com/sofiamancini/bancore/internal/repository"
)

// deliveryTimeout bounds fire-and-forget notification sends.
const deliveryTimeout = 15 * time.Second

// AuthService implements the credential and lock guard plus OTP step-up.
type AuthService struct {
	db               *db.DB
	verifier         CredentialVerifier
	sink             notify.Sink
	sessions         *SessionStore
	logger           *slog.Logger
	now              func() time.Time
	lockoutThreshold int
	lockoutDuration  time.Duration
	otpExpiry        time.Duration
	otpMaxAttempts   int
}

// NewAuthService creates a new AuthService
func NewAuthService(
	database *db.DB,
	verifier CredentialVerifier,
	sink notify.Sink,
	cfg *config.AuthConfig,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		db:               database,
		verifier:         verifier,
		sink:             sink,
		sessions:         NewSessionStore(),
		logger:           logger,
		now:              time.Now,
		lockoutThreshold: cfg.LockoutThreshold,
		lockoutDuration:  cfg.LockoutDuration,
		otpExpiry:        cfg.OTPExpiry,
		otpMaxAttempts:   cfg.OTPMaxAttempts,
	}
}

// LoginResult is returned after a correct password. The session is pending
// until the OTP sent to the account email is verified.
type LoginResult struct {
	Token string
}

// loginOutcome carries the persisted result of one attempt out of the
// transaction so alerts can be dispatched after commit.
type loginOutcome struct {
	account     *models.Account
	lockedUntil *time.Time
	authErr     *ServiceError
	failedCount int
}

// Login verifies the password for email and, on success, opens a pending
// session awaiting OTP verification. Failed attempts increment the per-account
// counter and lock the account at the configured threshold; the counter update
// and the lock decision commit atomically before any alert is sent.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidInput,
			Message: "email and password are required",
		}
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, internalError("failed to start transaction", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	outcome, err := s.performLogin(ctx, repository.NewAccountRepository(tx), email, password)
	if err != nil {
		return nil, internalError("login failed", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, internalError("failed to commit transaction", err)
	}

	if outcome.authErr != nil {
		s.alertAfterFailure(outcome)
		return nil, outcome.authErr
	}

	code := idgen.GenerateOTP()
	token := s.sessions.BeginPasswordVerified(outcome.account.ID, code, s.now().Add(s.otpExpiry))
	s.dispatch(outcome.account.Email, "Your one-time code",
		fmt.Sprintf("Your OTP code is: %s\nIt expires in %s.", code, s.otpExpiry))

	return &LoginResult{Token: token}, nil
}

// performLogin contains the attempt-counter state machine. It only persists
// state; notification dispatch happens after the caller commits.
func (s *AuthService) performLogin(
	ctx context.Context,
	accounts repository.AccountRepository,
	email, password string,
) (*loginOutcome, error) {
	account, err := accounts.FindByEmailForUpdate(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		// Unknown email gets the same answer as a wrong password.
		return &loginOutcome{authErr: &ServiceError{
			Code:    ErrCodeInvalidCredentials,
			Message: "invalid email or password",
		}}, nil
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	if account.IsLocked(now) {
		// No counter change and no password check while locked.
		return &loginOutcome{account: account, authErr: &ServiceError{
			Code:    ErrCodeAccountLocked,
			Message: fmt.Sprintf("account locked until %s", account.LockedUntil.Format(time.RFC3339)),
		}}, nil
	}

	if s.verifier.Verify(password, account.PasswordHash) {
		if err := accounts.UpdateLoginState(ctx, account.ID, 0, nil); err != nil {
			return nil, err
		}
		return &loginOutcome{account: account}, nil
	}

	attempts := account.FailedAttempts + 1
	var lockedUntil *time.Time
	if attempts >= s.lockoutThreshold {
		until := now.Add(s.lockoutDuration)
		lockedUntil = &until
	}

	if err := accounts.UpdateLoginState(ctx, account.ID, attempts, lockedUntil); err != nil {
		return nil, err
	}

	outcome := &loginOutcome{account: account, failedCount: attempts, lockedUntil: lockedUntil}
	if lockedUntil != nil {
		outcome.authErr = &ServiceError{
			Code:    ErrCodeAccountLocked,
			Message: fmt.Sprintf("too many failed attempts, account locked until %s", lockedUntil.Format(time.RFC3339)),
		}
	} else {
		outcome.authErr = &ServiceError{
			Code:    ErrCodeInvalidCredentials,
			Message: fmt.Sprintf("invalid credentials, %d attempts remaining", s.lockoutThreshold-attempts),
		}
	}

	return outcome, nil
}

// alertAfterFailure sends a security alert on the first failed attempt and on
// the attempt that locked the account.
func (s *AuthService) alertAfterFailure(outcome *loginOutcome) {
	if outcome.account == nil {
		return
	}

	switch {
	case outcome.lockedUntil != nil:
		s.dispatch(outcome.account.Email, "Security alert: account locked",
			fmt.Sprintf(
				"We detected %d failed login attempts on your account.\nIt is locked until %s.\nIf this was not you, reset your password immediately.",
				outcome.failedCount, outcome.lockedUntil.Format(time.RFC3339)))
	case outcome.failedCount == 1:
		s.dispatch(outcome.account.Email, "Security alert: failed login attempt",
			"We detected a failed login attempt on your account.\nIf this was you, you can ignore this email. Otherwise reset your password.")
	}
}

func (s *AuthService) dispatch(to, subject, body string) {
	dispatch(s.logger, s.sink, to, subject, body)
}

// VerifyOTP promotes a pending session to authenticated when code matches.
func (s *AuthService) VerifyOTP(token, code string) (uuid.UUID, error) {
	if code == "" {
		return uuid.Nil, &ServiceError{
			Code:    ErrCodeOTPInvalid,
			Message: "OTP code is required",
		}
	}
	return s.sessions.VerifyOTP(token, code, s.otpMaxAttempts)
}

// Authenticate resolves a session token to an authenticated account id.
func (s *AuthService) Authenticate(token string) (uuid.UUID, error) {
	accountID, ok := s.sessions.AccountID(token)
	if !ok {
		return uuid.Nil, &ServiceError{
			Code:    ErrCodeSessionInvalid,
			Message: "not authenticated",
		}
	}
	return accountID, nil
}

// Logout discards a session in any state.
func (s *AuthService) Logout(token string) {
	s.sessions.Delete(token)
}
