// Package password implements the credential-verifier capability with bcrypt.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher hashes and verifies passwords and PINs.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the default bcrypt cost.
func NewHasher() *Hasher {
	return &Hasher{cost: bcrypt.DefaultCost}
}

// Hash returns the bcrypt hash of plain.
func (h *Hasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches hash. bcrypt's comparison is
// constant-time on the derived key.
func (h *Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
