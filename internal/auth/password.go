package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when hashing a zero-length password.
var ErrEmptyPassword = errors.New("password must not be empty")

// Hasher produces and verifies salted bcrypt password hashes.
type Hasher struct {
	cost int
}

// NewHasher constructs a Hasher. A cost outside bcrypt's supported range
// falls back to the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted hash from plaintext. bcrypt generates a fresh salt
// per call, so two hashes of the same password never match byte-for-byte.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. All failure
// modes, including a malformed hash, collapse to false so callers cannot
// distinguish a corrupt record from a wrong password.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
