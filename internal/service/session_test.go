package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_VerifyOTP_Expiry(t *testing.T) {
	store := NewSessionStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	token := store.BeginPasswordVerified(uuid.New(), "123456", now.Add(10*time.Minute))

	now = now.Add(10*time.Minute + time.Second)

	_, err := store.VerifyOTP(token, "123456", 5)
	assertCode(t, err, ErrCodeOTPExpired)

	// The pending session is gone; a retry cannot recover it.
	_, err = store.VerifyOTP(token, "123456", 5)
	assertCode(t, err, ErrCodeSessionInvalid)
}

func TestSessionStore_VerifyOTP_AttemptBound(t *testing.T) {
	store := NewSessionStore()
	token := store.BeginPasswordVerified(uuid.New(), "123456", time.Now().Add(time.Minute))

	for i := 0; i < 4; i++ {
		_, err := store.VerifyOTP(token, "000000", 5)
		assertCode(t, err, ErrCodeOTPInvalid)
	}

	// Fifth mismatch burns the session.
	_, err := store.VerifyOTP(token, "000000", 5)
	assertCode(t, err, ErrCodeOTPExpired)

	_, err = store.VerifyOTP(token, "123456", 5)
	assertCode(t, err, ErrCodeSessionInvalid)
}

func TestSessionStore_VerifyOTP_SingleUse(t *testing.T) {
	store := NewSessionStore()
	accountID := uuid.New()
	token := store.BeginPasswordVerified(accountID, "123456", time.Now().Add(time.Minute))

	got, err := store.VerifyOTP(token, "123456", 5)
	require.NoError(t, err)
	assert.Equal(t, accountID, got)

	// The code was consumed on success; it cannot be replayed.
	_, err = store.VerifyOTP(token, "123456", 5)
	assertCode(t, err, ErrCodeSessionInvalid)

	// But the session itself stays authenticated.
	resolved, ok := store.AccountID(token)
	assert.True(t, ok)
	assert.Equal(t, accountID, resolved)
}

func TestSessionStore_MismatchKeepsSessionAlive(t *testing.T) {
	store := NewSessionStore()
	accountID := uuid.New()
	token := store.BeginPasswordVerified(accountID, "123456", time.Now().Add(time.Minute))

	_, err := store.VerifyOTP(token, "654321", 5)
	assertCode(t, err, ErrCodeOTPInvalid)

	got, err := store.VerifyOTP(token, "123456", 5)
	require.NoError(t, err)
	assert.Equal(t, accountID, got)
}
