package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch means the plaintext does not hash to the stored value.
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordVerifier checks a login password against a stored hash.
type PasswordVerifier interface {
	Compare(hashedPassword, password string) error
}

// BcryptVerifier is the bcrypt PasswordVerifier. Hashing happens in the
// user store when the account is created.
type BcryptVerifier struct{}

func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare returns ErrPasswordMismatch for a wrong password and bcrypt's own
// error for a malformed hash.
func (BcryptVerifier) Compare(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
