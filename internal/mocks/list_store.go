package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// MockListStore implements store.ListStore for testing.
type MockListStore struct {
	CreateFn          func(ctx context.Context, list *domain.List) error
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.List, error)
	MaxPositionFn     func(ctx context.Context, boardID uuid.UUID) (int, error)
	UpdateFn          func(ctx context.Context, list *domain.List) error
	DeleteFn          func(ctx context.Context, id uuid.UUID) error
	UpdatePositionsFn func(ctx context.Context, boardID uuid.UUID, positions []domain.ListPosition) error

	// TxCount counts WithTx calls so tests can assert a transaction was used.
	TxCount int
}

var _ store.ListStore = (*MockListStore)(nil)

// Create implements store.ListStore.
func (m *MockListStore) Create(ctx context.Context, list *domain.List) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, list)
	}
	return nil
}

// GetByID implements store.ListStore.
func (m *MockListStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrListNotFound
}

// MaxPosition implements store.ListStore. The default is an empty board.
func (m *MockListStore) MaxPosition(ctx context.Context, boardID uuid.UUID) (int, error) {
	if m.MaxPositionFn != nil {
		return m.MaxPositionFn(ctx, boardID)
	}
	return -1, nil
}

// Update implements store.ListStore.
func (m *MockListStore) Update(ctx context.Context, list *domain.List) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, list)
	}
	return nil
}

// Delete implements store.ListStore.
func (m *MockListStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// UpdatePositions implements store.ListStore.
func (m *MockListStore) UpdatePositions(ctx context.Context, boardID uuid.UUID, positions []domain.ListPosition) error {
	if m.UpdatePositionsFn != nil {
		return m.UpdatePositionsFn(ctx, boardID, positions)
	}
	return nil
}

// WithTx implements store.ListStore.
func (m *MockListStore) WithTx(tx *sql.Tx) store.ListStore {
	m.TxCount++
	return m
}
