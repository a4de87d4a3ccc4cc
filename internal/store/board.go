package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// BoardStore defines the interface for board and membership persistence.
type BoardStore interface {
	// Create saves a new board and records its owner as an OWNER member.
	Create(ctx context.Context, board *domain.Board) error

	// ListForUser returns the boards userID is a member of, most recently
	// updated first, with the user's role and list/member counts.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.BoardSummary, error)

	// GetByID retrieves a board without its lists or members.
	// Returns ErrBoardNotFound if the board does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error)

	// GetDetails retrieves a board with its lists ordered by position (each
	// carrying its card summaries) and its members with user profiles.
	// Returns ErrBoardNotFound if the board does not exist.
	GetDetails(ctx context.Context, id uuid.UUID) (*domain.BoardDetails, error)

	// Update persists name, description and background of board.
	// Returns ErrBoardNotFound if the board does not exist.
	Update(ctx context.Context, board *domain.Board) error

	// Delete removes a board together with its lists, cards and members.
	// Returns ErrBoardNotFound if the board does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetMemberRole returns the role of userID on boardID.
	// Returns ErrMemberNotFound if the user is not a member.
	GetMemberRole(ctx context.Context, boardID, userID uuid.UUID) (domain.Role, error)

	// AddMember inserts a membership.
	// Returns ErrMemberExists if the user is already a member.
	AddMember(ctx context.Context, member *domain.BoardMember) error

	// RemoveMember deletes a membership.
	// Returns ErrMemberNotFound if the user is not a member.
	RemoveMember(ctx context.Context, boardID, userID uuid.UUID) error

	// Touch bumps the board's updated_at so it sorts first in listings.
	Touch(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new BoardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) BoardStore
}
