package mocks

import "github.com/phrazzld/taskboard-api/internal/service/auth"

// MockPasswordVerifier implements auth.PasswordVerifier for testing.
// By default a password matches when it equals the stored hash.
type MockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements auth.PasswordVerifier.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword != password {
		return auth.ErrPasswordMismatch
	}
	return nil
}
