package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// TokenTTL is how long a verification or reset token stays usable.
const TokenTTL = 10 * time.Minute

// TokenSource issues single-use account tokens. Rand and Now are injectable
// so tests can produce deterministic tokens and simulate expiry.
type TokenSource struct {
	Rand io.Reader
	Now  func() time.Time
}

func NewTokenSource() *TokenSource {
	return &TokenSource{
		Rand: rand.Reader,
		Now:  time.Now,
	}
}

// Issue generates a random raw token, its sha256 digest, and an absolute
// expiry. The raw token goes to the user by email and is never stored; only
// the digest and expiry are persisted.
func (ts *TokenSource) Issue() (raw string, hash string, expires time.Time, err error) {
	buf := make([]byte, 32)
	if _, err := io.ReadFull(ts.Rand, buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to generate token: %v", err)
	}

	raw = hex.EncodeToString(buf)
	return raw, HashToken(raw), ts.Now().Add(TokenTTL), nil
}

// HashToken computes the storable digest of a raw token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the digest of the supplied raw token and checks it
// against the stored digest and expiry. Fails closed: an empty stored hash,
// a mismatch, or an elapsed expiry all return false.
func (ts *TokenSource) Verify(raw, storedHash string, storedExpiry time.Time) bool {
	if storedHash == "" || raw == "" {
		return false
	}
	if !ts.Now().Before(storedExpiry) {
		return false
	}
	return HashToken(raw) == storedHash
}
