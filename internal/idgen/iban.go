// Package idgen generates IBANs, card numbers and one-time codes.
package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	ibanCountry = "IT"

	// Numeric encoding of "IT00" appended to the body for the mod-97
	// check-digit computation (I=18, T=29).
	ibanChecksumSuffix = "182900"

	// CIN (1) + ABI (5) + CAB (5) + account number (12).
	ibanBodyLen = 23

	ibanLen = len(ibanCountry) + 2 + ibanBodyLen
)

// GenerateIBAN returns a new Italian-format IBAN with valid check digits.
// Uniqueness against existing accounts is the caller's responsibility.
func GenerateIBAN() string {
	body := randomDigits(ibanBodyLen)
	return ibanCountry + ibanChecksum(body) + body
}

// ValidateIBAN reports whether iban has the expected shape and check digits.
func ValidateIBAN(iban string) bool {
	if len(iban) != ibanLen || iban[:2] != ibanCountry {
		return false
	}
	for _, r := range iban[2:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return iban[2:4] == ibanChecksum(iban[4:])
}

// ibanChecksum computes the two check digits for a 23-digit IBAN body:
// 98 minus the mod-97 remainder of the body with the country suffix appended.
func ibanChecksum(body string) string {
	return fmt.Sprintf("%02d", 98-mod97(body+ibanChecksumSuffix))
}

// mod97 reduces an arbitrarily long digit string modulo 97 without
// materializing it as a big integer.
func mod97(digits string) int {
	rem := 0
	for _, r := range digits {
		rem = (rem*10 + int(r-'0')) % 97
	}
	return rem
}

func randomDigits(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = '0' + byte(randInt(10))
	}
	return string(buf)
}

func randInt(max int64) int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		// crypto/rand only fails if the platform entropy source is broken
		panic(fmt.Sprintf("idgen: entropy source unavailable: %v", err))
	}
	return n.Int64()
}
