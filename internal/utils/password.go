package utils

import "golang.org/x/crypto/bcrypt"

// Hasher is the salted password capability used by signup, login and
// seeding.  Digests are opaque strings; callers must go through Verify.
type Hasher struct {
	Cost int
}

// NewHasher returns a bcrypt Hasher.  Costs outside bcrypt's accepted
// range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{Cost: cost}
}

// Hash returns a bcrypt digest of plain.
func (h Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify safely compares a bcrypt digest and a plain password.
func (h Hasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
