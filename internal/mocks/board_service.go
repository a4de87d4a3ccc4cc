package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// MockBoardService implements service.BoardService for handler tests.
type MockBoardService struct {
	CreateBoardFn  func(ctx context.Context, userID uuid.UUID, in service.CreateBoardInput) (*domain.Board, error)
	ListBoardsFn   func(ctx context.Context, userID uuid.UUID) ([]domain.BoardSummary, error)
	GetBoardFn     func(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardDetails, error)
	UpdateBoardFn  func(ctx context.Context, boardID, userID uuid.UUID, upd domain.BoardUpdate) (*domain.Board, error)
	DeleteBoardFn  func(ctx context.Context, boardID, userID uuid.UUID) error
	AddMemberFn    func(ctx context.Context, boardID, actorID uuid.UUID, email string, role domain.Role) (*domain.BoardMember, error)
	RemoveMemberFn func(ctx context.Context, boardID, actorID, memberID uuid.UUID) error
	CanAccessFn    func(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
}

var _ service.BoardService = (*MockBoardService)(nil)

// CreateBoard implements service.BoardService.
func (m *MockBoardService) CreateBoard(
	ctx context.Context,
	userID uuid.UUID,
	in service.CreateBoardInput,
) (*domain.Board, error) {
	if m.CreateBoardFn != nil {
		return m.CreateBoardFn(ctx, userID, in)
	}
	return nil, nil
}

// ListBoards implements service.BoardService.
func (m *MockBoardService) ListBoards(ctx context.Context, userID uuid.UUID) ([]domain.BoardSummary, error) {
	if m.ListBoardsFn != nil {
		return m.ListBoardsFn(ctx, userID)
	}
	return nil, nil
}

// GetBoard implements service.BoardService.
func (m *MockBoardService) GetBoard(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardDetails, error) {
	if m.GetBoardFn != nil {
		return m.GetBoardFn(ctx, boardID, userID)
	}
	return nil, nil
}

// UpdateBoard implements service.BoardService.
func (m *MockBoardService) UpdateBoard(
	ctx context.Context,
	boardID, userID uuid.UUID,
	upd domain.BoardUpdate,
) (*domain.Board, error) {
	if m.UpdateBoardFn != nil {
		return m.UpdateBoardFn(ctx, boardID, userID, upd)
	}
	return nil, nil
}

// DeleteBoard implements service.BoardService.
func (m *MockBoardService) DeleteBoard(ctx context.Context, boardID, userID uuid.UUID) error {
	if m.DeleteBoardFn != nil {
		return m.DeleteBoardFn(ctx, boardID, userID)
	}
	return nil
}

// AddMember implements service.BoardService.
func (m *MockBoardService) AddMember(
	ctx context.Context,
	boardID, actorID uuid.UUID,
	email string,
	role domain.Role,
) (*domain.BoardMember, error) {
	if m.AddMemberFn != nil {
		return m.AddMemberFn(ctx, boardID, actorID, email, role)
	}
	return nil, nil
}

// RemoveMember implements service.BoardService.
func (m *MockBoardService) RemoveMember(ctx context.Context, boardID, actorID, memberID uuid.UUID) error {
	if m.RemoveMemberFn != nil {
		return m.RemoveMemberFn(ctx, boardID, actorID, memberID)
	}
	return nil
}

// CanAccess implements service.BoardService.
func (m *MockBoardService) CanAccess(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	if m.CanAccessFn != nil {
		return m.CanAccessFn(ctx, boardID, userID)
	}
	return false, nil
}
