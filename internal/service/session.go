package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Login state machine: a session is created in StatePasswordVerified after a
// correct password, and promoted to StateAuthenticated only by a matching OTP.
// There is no ambient "current user"; callers hold an opaque token.
type sessionState int

const (
	statePasswordVerified sessionState = iota
	stateAuthenticated
)

type session struct {
	otpExpiresAt time.Time
	otpCode      string
	accountID    uuid.UUID
	state        sessionState
	otpAttempts  int
}

// SessionStore holds in-flight and authenticated sessions in memory.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// BeginPasswordVerified creates a pending session bound to an OTP code and
// returns its token.
func (s *SessionStore) BeginPasswordVerified(accountID uuid.UUID, otpCode string, otpExpiresAt time.Time) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = &session{
		accountID:    accountID,
		state:        statePasswordVerified,
		otpCode:      otpCode,
		otpExpiresAt: otpExpiresAt,
	}

	return token
}

// VerifyOTP checks code against the pending session's bound OTP. On match the
// session becomes authenticated and the code is consumed. The pending session
// is discarded when the code has expired or maxAttempts mismatches have been
// made; the caller must then restart from the password step.
func (s *SessionStore) VerifyOTP(token, code string, maxAttempts int) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || sess.state != statePasswordVerified {
		return uuid.Nil, &ServiceError{
			Code:    ErrCodeSessionInvalid,
			Message: "no pending login for this session",
		}
	}

	if s.now().After(sess.otpExpiresAt) {
		delete(s.sessions, token)
		return uuid.Nil, &ServiceError{
			Code:    ErrCodeOTPExpired,
			Message: "OTP code has expired, log in again",
		}
	}

	if code != sess.otpCode {
		sess.otpAttempts++
		if sess.otpAttempts >= maxAttempts {
			delete(s.sessions, token)
			return uuid.Nil, &ServiceError{
				Code:    ErrCodeOTPExpired,
				Message: "too many incorrect codes, log in again",
			}
		}
		return uuid.Nil, &ServiceError{
			Code:    ErrCodeOTPInvalid,
			Message: "incorrect OTP code",
		}
	}

	sess.state = stateAuthenticated
	sess.otpCode = ""

	return sess.accountID, nil
}

// AccountID resolves a token to an authenticated account id.
func (s *SessionStore) AccountID(token string) (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || sess.state != stateAuthenticated {
		return uuid.Nil, false
	}
	return sess.accountID, true
}

// Delete removes a session in any state.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
