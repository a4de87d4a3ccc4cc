package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// List validation errors.
var (
	ErrEmptyListID      = errors.New("list ID cannot be empty")
	ErrInvalidListName  = errors.New("list name must be between 1 and 100 characters")
	ErrNegativePosition = errors.New("position cannot be negative")
	ErrDuplicateReorder = errors.New("list appears more than once in reorder")
)

// MaxListNameLength is the longest list name accepted.
const MaxListNameLength = 100

// List is an ordered column of cards on a board.
type List struct {
	ID        uuid.UUID     `json:"id"`
	BoardID   uuid.UUID     `json:"boardId"`
	Name      string        `json:"name"`
	Position  int           `json:"position"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Cards     []CardSummary `json:"cards"`
	CardCount int           `json:"cardCount"`
}

// NewList creates a validated list at position on boardID.
func NewList(boardID uuid.UUID, name string, position int) (*List, error) {
	now := time.Now().UTC()
	l := &List{
		ID:        uuid.New(),
		BoardID:   boardID,
		Name:      strings.TrimSpace(name),
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
		Cards:     []CardSummary{},
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks if the List has valid data.
func (l *List) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyListID
	}
	if l.BoardID == uuid.Nil {
		return ErrEmptyBoardID
	}
	if err := validateListName(l.Name); err != nil {
		return err
	}
	if l.Position < 0 {
		return ErrNegativePosition
	}
	return nil
}

func validateListName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 1 || n > MaxListNameLength {
		return ErrInvalidListName
	}
	return nil
}

// ListUpdate is a partial update of a list.
type ListUpdate struct {
	Name     *string `json:"name,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// Normalize trims and validates the provided fields.
func (u *ListUpdate) Normalize() error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if err := validateListName(name); err != nil {
			return err
		}
		u.Name = &name
	}
	if u.Position != nil && *u.Position < 0 {
		return ErrNegativePosition
	}
	return nil
}

// Apply copies the set fields of u onto l and bumps UpdatedAt.
func (u ListUpdate) Apply(l *List) {
	if u.Name != nil {
		l.Name = *u.Name
	}
	if u.Position != nil {
		l.Position = *u.Position
	}
	l.UpdatedAt = time.Now().UTC()
}

// ListPosition assigns a position to a list in a reorder batch.
type ListPosition struct {
	ID       uuid.UUID `json:"id"`
	Position int       `json:"position"`
}

// ValidateReorder rejects nil or repeated ids and negative positions. An
// empty batch is valid. The client's order is otherwise trusted.
func ValidateReorder(positions []ListPosition) error {
	seen := make(map[uuid.UUID]struct{}, len(positions))
	for _, p := range positions {
		if p.ID == uuid.Nil {
			return ErrEmptyListID
		}
		if p.Position < 0 {
			return ErrNegativePosition
		}
		if _, dup := seen[p.ID]; dup {
			return ErrDuplicateReorder
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// CardSummary is the read-only view of a card shown inside a list.
type CardSummary struct {
	ID       uuid.UUID  `json:"id"`
	ListID   uuid.UUID  `json:"listId"`
	Title    string     `json:"title"`
	Position int        `json:"position"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
}
