package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Board validation errors.
var (
	ErrEmptyBoardID     = errors.New("board ID cannot be empty")
	ErrEmptyOwnerID     = errors.New("board owner ID cannot be empty")
	ErrInvalidBoardName = errors.New("board name must be between 1 and 100 characters")
)

// MaxBoardNameLength is the longest board name accepted.
const MaxBoardNameLength = 100

// Board is a collaborative space containing ordered lists.
type Board struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Background  *string   `json:"background"`
	OwnerID     uuid.UUID `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewBoard creates a validated board owned by ownerID.
func NewBoard(ownerID uuid.UUID, name string, description, background *string) (*Board, error) {
	now := time.Now().UTC()
	b := &Board{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: trimOptional(description),
		Background:  trimOptional(background),
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks if the Board has valid data.
func (b *Board) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBoardID
	}
	if b.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}
	return validateBoardName(b.Name)
}

func validateBoardName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 1 || n > MaxBoardNameLength {
		return ErrInvalidBoardName
	}
	return nil
}

// BoardUpdate is a partial update. Nil fields are left unchanged.
type BoardUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Background  *string `json:"background,omitempty"`
}

// Normalize trims the provided fields and validates the name when present.
func (u *BoardUpdate) Normalize() error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if err := validateBoardName(name); err != nil {
			return err
		}
		u.Name = &name
	}
	u.Description = trimOptional(u.Description)
	u.Background = trimOptional(u.Background)
	return nil
}

// IsEmpty reports whether the update changes nothing.
func (u BoardUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Background == nil
}

// Apply copies the set fields of u onto b and bumps UpdatedAt.
func (u BoardUpdate) Apply(b *Board) {
	if u.Name != nil {
		b.Name = *u.Name
	}
	if u.Description != nil {
		b.Description = u.Description
	}
	if u.Background != nil {
		b.Background = u.Background
	}
	b.UpdatedAt = time.Now().UTC()
}

// BoardSummary is a board as shown in a user's board listing.
type BoardSummary struct {
	Board
	Role        Role `json:"role"`
	ListCount   int  `json:"listCount"`
	MemberCount int  `json:"memberCount"`
}

// BoardDetails is a board with its lists, members and the caller's access.
type BoardDetails struct {
	Board
	Lists           []List        `json:"lists"`
	Members         []BoardMember `json:"members"`
	ListCount       int           `json:"listCount"`
	MemberCount     int           `json:"memberCount"`
	CurrentUserRole Role          `json:"currentUserRole,omitempty"`
	Permissions     Permissions   `json:"permissions"`
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
