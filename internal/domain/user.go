package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// User validation errors.
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("please provide a valid email address")
	ErrInvalidUsername  = errors.New("username must be 3-20 characters and contain only letters, numbers, and underscores")
	ErrInvalidName      = errors.New("name must be between 1 and 50 characters")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword    = errors.New("password cannot be empty")
)

// Password length bounds. 72 bytes is the most bcrypt will look at.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
	MaxNameLength     = 50
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
)

// User represents a registered user of the task board.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Avatar         *string   `json:"avatar,omitempty"`
	Password       string    `json:"-"` // plaintext, only set between registration and hashing
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser creates a new User with a fresh ID and timestamps.
// The caller is responsible for hashing Password before the user is stored.
func NewUser(email, username, password, name string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     strings.TrimSpace(email),
		Username:  strings.TrimSpace(username),
		Name:      strings.TrimSpace(name),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !emailPattern.MatchString(u.Email) {
		return ErrInvalidEmail
	}
	if !usernamePattern.MatchString(u.Username) {
		return ErrInvalidUsername
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(u.Name)); n < 1 || n > MaxNameLength {
		return ErrInvalidName
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}
	// Stored users carry only the hash.
	if u.HashedPassword == "" {
		return ErrEmptyPassword
	}
	return nil
}

// ValidatePassword checks plaintext password length bounds.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

// Public returns the profile view of the user safe to expose to other members.
func (u *User) Public() MemberUser {
	return MemberUser{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Name:     u.Name,
		Avatar:   u.Avatar,
	}
}
