package idgen

import (
	"fmt"
	"time"
)

// Card numbers are issued with a 5-year validity, month/year granularity.
const cardValidityYears = 5

// GenerateCardNumber returns 16 random digits. Uniqueness against existing
// cards is the caller's responsibility.
func GenerateCardNumber() string {
	return randomDigits(16)
}

// GenerateCVV returns a 3-digit card verification value.
func GenerateCVV() string {
	return randomDigits(3)
}

// CardExpiry returns the expiry month and year for a card issued at now.
func CardExpiry(now time.Time) (month, year int) {
	exp := now.AddDate(cardValidityYears, 0, 0)
	return int(exp.Month()), exp.Year()
}

// GenerateOTP returns a 6-digit one-time code with no leading zero.
func GenerateOTP() string {
	return fmt.Sprintf("%06d", 100000+randInt(900000))
}
