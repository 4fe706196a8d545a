package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the work factor the service has always used.
const DefaultBcryptCost = 10

// MaxPasswordBytes is the longest input bcrypt takes into account.
const MaxPasswordBytes = 72

// PasswordHasher hashes plaintext passwords and verifies candidates against
// stored digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. A mismatch is (false, nil);
	// an error means the comparison itself failed.
	Verify(plaintext, hash string) (bool, error)
}

// BcryptHasher is a PasswordHasher backed by bcrypt, which salts every digest
// and compares in constant time.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher validates cost against bcrypt's limits.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrHashing, err)
	}
	return string(b), nil
}

// Verify rejects candidates longer than MaxPasswordBytes outright: bcrypt
// would only compare their first 72 bytes, and no stored hash was made from
// such a password.
func (h *BcryptHasher) Verify(plaintext, hash string) (bool, error) {
	if len(plaintext) > MaxPasswordBytes {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", common.ErrHashing, err)
	}
}
