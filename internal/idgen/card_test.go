package idgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCardNumber(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		number := GenerateCardNumber()
		require.Len(t, number, 16)
		for _, r := range number {
			assert.True(t, r >= '0' && r <= '9', "non-digit in card number %s", number)
		}
		seen[number] = true
	}
	// 50 draws from 10^16 colliding would mean a broken random source.
	assert.Greater(t, len(seen), 1)
}

func TestGenerateCVV(t *testing.T) {
	cvv := GenerateCVV()
	require.Len(t, cvv, 3)
	for _, r := range cvv {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestCardExpiry(t *testing.T) {
	issued := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	month, year := CardExpiry(issued)
	assert.Equal(t, 3, month)
	assert.Equal(t, 2031, year)
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 20; i++ {
		otp := GenerateOTP()
		require.Len(t, otp, 6)
		assert.NotEqual(t, byte('0'), otp[0], "OTP must not have a leading zero")
	}
}
