package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// ListStore defines the interface for list persistence.
type ListStore interface {
	// Create saves a new list.
	// Returns ErrBoardNotFound if the board does not exist.
	Create(ctx context.Context, list *domain.List) error

	// GetByID retrieves a list without its cards.
	// Returns ErrListNotFound if the list does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.List, error)

	// MaxPosition returns the highest list position on boardID, or -1 when
	// the board has no lists.
	MaxPosition(ctx context.Context, boardID uuid.UUID) (int, error)

	// Update persists the name and position of list.
	// Returns ErrListNotFound if the list does not exist.
	Update(ctx context.Context, list *domain.List) error

	// Delete removes a list and its cards.
	// Returns ErrListNotFound if the list does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdatePositions assigns each list its position. Only lists belonging
	// to boardID are touched; if any id does not match a list on the board
	// the method returns ErrListNotFound. Callers run it in a transaction
	// so a failure leaves every position unchanged.
	UpdatePositions(ctx context.Context, boardID uuid.UUID, positions []domain.ListPosition) error

	// WithTx returns a new ListStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ListStore
}
