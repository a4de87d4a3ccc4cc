package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/phrazzld/taskboard-api/internal/mocks"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listFixture struct {
	svc     service.ListService
	lists   *mocks.MockListStore
	boards  *mocks.MockBoardStore
	emitter *mocks.MockEventEmitter
	sql     sqlmock.Sqlmock

	boardID uuid.UUID
	member  uuid.UUID
	listID  uuid.UUID
}

func newListFixture(t *testing.T) *listFixture {
	t.Helper()
	db, mock := newMockDB(t)
	f := &listFixture{
		lists:   &mocks.MockListStore{},
		boards:  &mocks.MockBoardStore{},
		emitter: &mocks.MockEventEmitter{},
		sql:     mock,
		boardID: uuid.New(),
		member:  uuid.New(),
		listID:  uuid.New(),
	}
	f.boards.GetMemberRoleFn = mocks.RoleMap(f.boardID, map[uuid.UUID]domain.Role{f.member: domain.RoleMember})
	f.boards.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
		if id != f.boardID {
			return nil, store.ErrBoardNotFound
		}
		return &domain.Board{ID: id, Name: "Roadmap"}, nil
	}
	f.lists.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.List, error) {
		if id != f.listID {
			return nil, store.ErrListNotFound
		}
		return &domain.List{ID: id, BoardID: f.boardID, Name: "Todo", Position: 0}, nil
	}

	svc, err := service.NewListService(f.lists, f.boards, db, f.emitter, discardLogger())
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestNewListService_NilDependencies(t *testing.T) {
	db, _ := newMockDB(t)
	_, err := service.NewListService(nil, &mocks.MockBoardStore{}, db, &mocks.MockEventEmitter{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.NewListService(&mocks.MockListStore{}, &mocks.MockBoardStore{}, nil, &mocks.MockEventEmitter{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateList_AppendsAfterLastPosition(t *testing.T) {
	f := newListFixture(t)
	f.lists.MaxPositionFn = func(ctx context.Context, boardID uuid.UUID) (int, error) {
		return 2, nil
	}

	list, err := f.svc.CreateList(context.Background(), f.boardID, f.member, " Doing ", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, list.Position)
	assert.Equal(t, "Doing", list.Name)
	assert.Equal(t, []uuid.UUID{f.boardID}, f.boards.Touched)
	assert.Equal(t, []string{events.TypeListCreated}, f.emitter.Types())
}

func TestCreateList_FirstListAndExplicitPosition(t *testing.T) {
	f := newListFixture(t)

	first, err := f.svc.CreateList(context.Background(), f.boardID, f.member, "Todo", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position)

	placed, err := f.svc.CreateList(context.Background(), f.boardID, f.member, "Done", intPtr(7))
	require.NoError(t, err)
	assert.Equal(t, 7, placed.Position)
}

func TestCreateList_Errors(t *testing.T) {
	f := newListFixture(t)

	tests := []struct {
		name     string
		boardID  uuid.UUID
		userID   uuid.UUID
		listName string
		position *int
		wantErr  error
	}{
		{"outsider", f.boardID, uuid.New(), "Todo", nil, service.ErrNotBoardMember},
		{"missing board", uuid.New(), f.member, "Todo", nil, store.ErrBoardNotFound},
		{"blank name", f.boardID, f.member, "   ", nil, domain.ErrInvalidListName},
		{"negative position", f.boardID, f.member, "Todo", intPtr(-1), domain.ErrNegativePosition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateList(context.Background(), tt.boardID, tt.userID, tt.listName, tt.position)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.emitter.Events)
}

func TestUpdateList(t *testing.T) {
	f := newListFixture(t)

	list, err := f.svc.UpdateList(context.Background(), f.listID, f.member,
		domain.ListUpdate{Name: strPtr("In review"), Position: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, "In review", list.Name)
	assert.Equal(t, 4, list.Position)
	assert.Equal(t, []string{events.TypeListUpdated}, f.emitter.Types())

	_, err = f.svc.UpdateList(context.Background(), uuid.New(), f.member, domain.ListUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, store.ErrListNotFound)

	_, err = f.svc.UpdateList(context.Background(), f.listID, uuid.New(), domain.ListUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, service.ErrNotBoardMember)
}

func TestDeleteList(t *testing.T) {
	f := newListFixture(t)

	var deleted uuid.UUID
	f.lists.DeleteFn = func(ctx context.Context, id uuid.UUID) error {
		deleted = id
		return nil
	}

	require.NoError(t, f.svc.DeleteList(context.Background(), f.listID, f.member))
	assert.Equal(t, f.listID, deleted)

	require.Len(t, f.emitter.Events, 1)
	var payload map[string]uuid.UUID
	require.NoError(t, f.emitter.Events[0].UnmarshalPayload(&payload))
	assert.Equal(t, f.listID, payload["listId"])

	assert.ErrorIs(t, f.svc.DeleteList(context.Background(), f.listID, uuid.New()), service.ErrNotBoardMember)
}

func TestReorderLists_CommitsInOneTransaction(t *testing.T) {
	f := newListFixture(t)
	f.sql.ExpectBegin()
	f.sql.ExpectCommit()

	var got []domain.ListPosition
	f.lists.UpdatePositionsFn = func(ctx context.Context, boardID uuid.UUID, positions []domain.ListPosition) error {
		got = positions
		return nil
	}

	positions := []domain.ListPosition{
		{ID: uuid.New(), Position: 1},
		{ID: uuid.New(), Position: 0},
	}
	require.NoError(t, f.svc.ReorderLists(context.Background(), f.boardID, f.member, positions))

	assert.Equal(t, positions, got)
	assert.Equal(t, 1, f.lists.TxCount)
	assert.Equal(t, []uuid.UUID{f.boardID}, f.boards.Touched)
	assert.Equal(t, []string{events.TypeListsReordered}, f.emitter.Types())
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestReorderLists_RollsBackOnForeignList(t *testing.T) {
	f := newListFixture(t)
	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	foreign := uuid.New()
	f.lists.UpdatePositionsFn = func(ctx context.Context, boardID uuid.UUID, positions []domain.ListPosition) error {
		return fmt.Errorf("list %s: %w", foreign, store.ErrListNotFound)
	}

	err := f.svc.ReorderLists(context.Background(), f.boardID, f.member, []domain.ListPosition{
		{ID: uuid.New(), Position: 0},
		{ID: foreign, Position: 1},
	})
	assert.ErrorIs(t, err, store.ErrListNotFound)
	assert.Empty(t, f.boards.Touched)
	assert.Empty(t, f.emitter.Events)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestReorderLists_StoreFailure(t *testing.T) {
	f := newListFixture(t)
	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	f.lists.UpdatePositionsFn = func(ctx context.Context, boardID uuid.UUID, positions []domain.ListPosition) error {
		return errors.New("deadlock detected")
	}

	err := f.svc.ReorderLists(context.Background(), f.boardID, f.member,
		[]domain.ListPosition{{ID: uuid.New(), Position: 0}})

	var svcErr *service.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "reorder", svcErr.Operation)
}

func TestReorderLists_EmptyBatchIsNoop(t *testing.T) {
	f := newListFixture(t)

	err := f.svc.ReorderLists(context.Background(), f.boardID, f.member, []domain.ListPosition{})
	require.NoError(t, err)
	assert.Equal(t, 0, f.lists.TxCount)
	assert.Empty(t, f.boards.Touched)
	assert.Empty(t, f.emitter.Events)
	assert.NoError(t, f.sql.ExpectationsWereMet())

	err = f.svc.ReorderLists(context.Background(), f.boardID, uuid.New(), nil)
	assert.ErrorIs(t, err, service.ErrNotBoardMember)
}

func TestReorderLists_RejectedBeforeTransaction(t *testing.T) {
	f := newListFixture(t)
	dup := uuid.New()

	tests := []struct {
		name      string
		userID    uuid.UUID
		positions []domain.ListPosition
		wantErr   error
	}{
		{"duplicate id", f.member, []domain.ListPosition{{ID: dup, Position: 0}, {ID: dup, Position: 1}}, domain.ErrDuplicateReorder},
		{"negative position", f.member, []domain.ListPosition{{ID: uuid.New(), Position: -1}}, domain.ErrNegativePosition},
		{"outsider", uuid.New(), []domain.ListPosition{{ID: uuid.New(), Position: 0}}, service.ErrNotBoardMember},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.ReorderLists(context.Background(), f.boardID, tt.userID, tt.positions)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, 0, f.lists.TxCount)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}
