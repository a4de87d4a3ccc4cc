package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// MockListService implements service.ListService for handler tests.
type MockListService struct {
	CreateListFn   func(ctx context.Context, boardID, userID uuid.UUID, name string, position *int) (*domain.List, error)
	UpdateListFn   func(ctx context.Context, listID, userID uuid.UUID, upd domain.ListUpdate) (*domain.List, error)
	DeleteListFn   func(ctx context.Context, listID, userID uuid.UUID) error
	ReorderListsFn func(ctx context.Context, boardID, userID uuid.UUID, positions []domain.ListPosition) error
}

var _ service.ListService = (*MockListService)(nil)

// CreateList implements service.ListService.
func (m *MockListService) CreateList(
	ctx context.Context,
	boardID, userID uuid.UUID,
	name string,
	position *int,
) (*domain.List, error) {
	if m.CreateListFn != nil {
		return m.CreateListFn(ctx, boardID, userID, name, position)
	}
	return nil, nil
}

// UpdateList implements service.ListService.
func (m *MockListService) UpdateList(
	ctx context.Context,
	listID, userID uuid.UUID,
	upd domain.ListUpdate,
) (*domain.List, error) {
	if m.UpdateListFn != nil {
		return m.UpdateListFn(ctx, listID, userID, upd)
	}
	return nil, nil
}

// DeleteList implements service.ListService.
func (m *MockListService) DeleteList(ctx context.Context, listID, userID uuid.UUID) error {
	if m.DeleteListFn != nil {
		return m.DeleteListFn(ctx, listID, userID)
	}
	return nil
}

// ReorderLists implements service.ListService.
func (m *MockListService) ReorderLists(
	ctx context.Context,
	boardID, userID uuid.UUID,
	positions []domain.ListPosition,
) error {
	if m.ReorderListsFn != nil {
		return m.ReorderListsFn(ctx, boardID, userID, positions)
	}
	return nil
}
