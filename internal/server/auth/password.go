package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes passwords with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or common.DefaultBcryptCost
// when cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = common.DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// prehash maps any password to 44 bytes of base64 so bcrypt's 72-byte
// limit never applies and no input is truncated.
func prehash(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// Hash returns the bcrypt hash of plain. Any string is accepted; an error
// means bcrypt itself failed and is reported as common.ErrHashing.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(prehash(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrHashing, err)
	}
	return string(b), nil
}

// Verify reports whether plain matches hash. A mismatch is not an error;
// a malformed hash is common.ErrComparison.
func (h *BcryptHasher) Verify(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), prehash(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", common.ErrComparison, err)
	}
}
