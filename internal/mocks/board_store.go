package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// MockBoardStore implements store.BoardStore for testing.
// Unset function fields succeed with zero values, except GetMemberRole and
// GetByID which report not found.
type MockBoardStore struct {
	CreateFn        func(ctx context.Context, board *domain.Board) error
	ListForUserFn   func(ctx context.Context, userID uuid.UUID) ([]domain.BoardSummary, error)
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	GetDetailsFn    func(ctx context.Context, id uuid.UUID) (*domain.BoardDetails, error)
	UpdateFn        func(ctx context.Context, board *domain.Board) error
	DeleteFn        func(ctx context.Context, id uuid.UUID) error
	GetMemberRoleFn func(ctx context.Context, boardID, userID uuid.UUID) (domain.Role, error)
	AddMemberFn     func(ctx context.Context, member *domain.BoardMember) error
	RemoveMemberFn  func(ctx context.Context, boardID, userID uuid.UUID) error
	TouchFn         func(ctx context.Context, id uuid.UUID) error

	// Touched records the ids passed to Touch.
	Touched []uuid.UUID
}

var _ store.BoardStore = (*MockBoardStore)(nil)

// Create implements store.BoardStore.
func (m *MockBoardStore) Create(ctx context.Context, board *domain.Board) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, board)
	}
	return nil
}

// ListForUser implements store.BoardStore.
func (m *MockBoardStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.BoardSummary, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID)
	}
	return []domain.BoardSummary{}, nil
}

// GetByID implements store.BoardStore.
func (m *MockBoardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrBoardNotFound
}

// GetDetails implements store.BoardStore.
func (m *MockBoardStore) GetDetails(ctx context.Context, id uuid.UUID) (*domain.BoardDetails, error) {
	if m.GetDetailsFn != nil {
		return m.GetDetailsFn(ctx, id)
	}
	return nil, store.ErrBoardNotFound
}

// Update implements store.BoardStore.
func (m *MockBoardStore) Update(ctx context.Context, board *domain.Board) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, board)
	}
	return nil
}

// Delete implements store.BoardStore.
func (m *MockBoardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// GetMemberRole implements store.BoardStore.
func (m *MockBoardStore) GetMemberRole(ctx context.Context, boardID, userID uuid.UUID) (domain.Role, error) {
	if m.GetMemberRoleFn != nil {
		return m.GetMemberRoleFn(ctx, boardID, userID)
	}
	return "", store.ErrMemberNotFound
}

// AddMember implements store.BoardStore.
func (m *MockBoardStore) AddMember(ctx context.Context, member *domain.BoardMember) error {
	if m.AddMemberFn != nil {
		return m.AddMemberFn(ctx, member)
	}
	return nil
}

// RemoveMember implements store.BoardStore.
func (m *MockBoardStore) RemoveMember(ctx context.Context, boardID, userID uuid.UUID) error {
	if m.RemoveMemberFn != nil {
		return m.RemoveMemberFn(ctx, boardID, userID)
	}
	return nil
}

// Touch implements store.BoardStore.
func (m *MockBoardStore) Touch(ctx context.Context, id uuid.UUID) error {
	m.Touched = append(m.Touched, id)
	if m.TouchFn != nil {
		return m.TouchFn(ctx, id)
	}
	return nil
}

// WithTx implements store.BoardStore. The mock ignores the transaction.
func (m *MockBoardStore) WithTx(tx *sql.Tx) store.BoardStore {
	return m
}

// RoleMap returns a GetMemberRoleFn answering from roles keyed by user id.
// The roles apply to board only; every other board has no members.
func RoleMap(board uuid.UUID, roles map[uuid.UUID]domain.Role) func(ctx context.Context, boardID, userID uuid.UUID) (domain.Role, error) {
	return func(ctx context.Context, boardID, userID uuid.UUID) (domain.Role, error) {
		if boardID != board {
			return "", store.ErrMemberNotFound
		}
		if r, ok := roles[userID]; ok {
			return r, nil
		}
		return "", store.ErrMemberNotFound
	}
}
