// Package credential hashes and verifies link passwords. Plaintext passwords
// are never stored, logged or returned.
package credential

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxCost bounds the bcrypt work factor so a single verification cannot stall a request
const MaxCost = 14

var (
	// ErrEmptyPassword is returned when hashing an empty plaintext
	ErrEmptyPassword = errors.New("empty password")
	// ErrPasswordTooLong is returned for plaintexts bcrypt cannot hash
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// Guard hashes and verifies link passwords
type Guard struct {
	cost int
}

// NewGuard creates a Guard with the given bcrypt cost, clamped to the supported range
func NewGuard(cost int) *Guard {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > MaxCost {
		cost = MaxCost
	}
	return &Guard{cost: cost}
}

// Cost returns the effective bcrypt cost
func (g *Guard) Cost() int {
	return g.cost
}

// Hash returns a self-describing salted digest of plaintext
func (g *Guard) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if len(plaintext) > 72 {
		return "", ErrPasswordTooLong
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), g.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. An empty digest means the
// link is unprotected and always verifies. A malformed digest never verifies.
func (g *Guard) Verify(plaintext, digest string) bool {
	if digest == "" {
		return true
	}
	if !wellFormed(digest) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// VerifyContext is Verify bounded by ctx. The comparison keeps running in the
// background after ctx ends; its cost is bounded by MaxCost.
func (g *Guard) VerifyContext(ctx context.Context, plaintext, digest string) (bool, error) {
	if digest == "" {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	done := make(chan bool, 1)
	go func() {
		done <- g.Verify(plaintext, digest)
	}()

	select {
	case ok := <-done:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Fingerprint derives a non-reversible tag of digest. It is what a visitor
// session remembers after a successful unlock, and it changes with the password.
func Fingerprint(digest string) string {
	if digest == "" {
		return ""
	}
	sum := sha256.Sum256([]byte("unlock:" + digest))
	return hex.EncodeToString(sum[:16])
}

func wellFormed(digest string) bool {
	cost, err := bcrypt.Cost([]byte(digest))
	return err == nil && cost <= MaxCost
}
