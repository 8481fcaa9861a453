package identity

import (
	"fmt"
	"math/rand/v2"

	"golang.org/x/crypto/bcrypt"
)

const (
	// PasswordLength is the length of generated initial passwords.
	PasswordLength = 10

	// PasswordAlphabet holds the 72 symbols passwords are drawn from.
	PasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
)

// PasswordGenerator produces initial passwords handed to new users.
// It is a convenience utility, not a security primitive: users are expected
// to change the password on first login.
type PasswordGenerator struct {
	rnd *rand.Rand
}

// NewPasswordGenerator creates a generator over src. A nil src uses the
// runtime's shared random source.
func NewPasswordGenerator(src rand.Source) *PasswordGenerator {
	if src == nil {
		return &PasswordGenerator{}
	}
	return &PasswordGenerator{rnd: rand.New(src)}
}

// Generate returns PasswordLength characters, each drawn uniformly from PasswordAlphabet.
func (g *PasswordGenerator) Generate() string {
	buf := make([]byte, PasswordLength)
	for i := range buf {
		buf[i] = PasswordAlphabet[g.intN(len(PasswordAlphabet))]
	}
	return string(buf)
}

func (g *PasswordGenerator) intN(n int) int {
	if g == nil || g.rnd == nil {
		return rand.IntN(n)
	}
	return g.rnd.IntN(n)
}

// GeneratePassword returns a random initial password.
func GeneratePassword() string {
	return (*PasswordGenerator)(nil).Generate()
}

// HashPassword hashes a password for storage.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
