package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 10
	// bcrypt only reads the first 72 bytes of its input.
	bcryptMaxPasswordBytes = 72
)

var (
	// ErrPasswordMismatch is returned when a provided password does not match the stored value.
	ErrPasswordMismatch = errors.New("password mismatch")
	// ErrPasswordTooLong is returned when a password exceeds what the scheme can store.
	ErrPasswordTooLong = errors.New("password too long")
)

// PasswordHasher encodes passwords for storage and checks login attempts against them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(stored, provided string) error
}

// NewPasswordHasher returns the hasher for scheme: "plaintext" keeps passwords
// as-is (compatible with existing clear-text rows), "bcrypt" stores bcrypt hashes.
func NewPasswordHasher(scheme string) (PasswordHasher, error) {
	switch scheme {
	case "plaintext", "":
		return plaintextHasher{}, nil
	case "bcrypt":
		return bcryptHasher{cost: bcryptCost}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

type plaintextHasher struct{}

func (plaintextHasher) Hash(password string) (string, error) {
	return password, nil
}

func (plaintextHasher) Compare(stored, provided string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

type bcryptHasher struct {
	cost int
}

func (h bcryptHasher) Hash(password string) (string, error) {
	if len(password) > bcryptMaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hashed), nil
}

func (h bcryptHasher) Compare(stored, provided string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(provided)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}
