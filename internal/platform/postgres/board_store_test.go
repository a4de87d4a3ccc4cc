package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardStore_CreateWritesOwnerMembership(t *testing.T) {
	db, mock := newMockDB(t)
	board, err := domain.NewBoard(uuid.New(), "Roadmap", nil, nil)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO board_members").
		WithArgs(board.ID, "Roadmap", nil, nil, board.OwnerID, sqlmock.AnyArg(), sqlmock.AnyArg(), "OWNER").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewPostgresBoardStore(db, nil).Create(context.Background(), board)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardStore_GetMemberRole(t *testing.T) {
	boardID, userID := uuid.New(), uuid.New()

	t.Run("member", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT role FROM board_members").
			WithArgs(boardID, userID).
			WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("ADMIN"))

		role, err := NewPostgresBoardStore(db, nil).GetMemberRole(context.Background(), boardID, userID)

		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, role)
	})

	t.Run("not a member", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT role FROM board_members").
			WithArgs(boardID, userID).
			WillReturnRows(sqlmock.NewRows([]string{"role"}))

		_, err := NewPostgresBoardStore(db, nil).GetMemberRole(context.Background(), boardID, userID)

		assert.ErrorIs(t, err, store.ErrMemberNotFound)
	})
}

func TestBoardStore_AddMemberDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	member, err := domain.NewBoardMember(uuid.New(), uuid.New(), domain.RoleMember)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO board_members").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "board_members_pkey"})

	err = NewPostgresBoardStore(db, nil).AddMember(context.Background(), member)

	assert.ErrorIs(t, err, store.ErrMemberExists)
}

func TestBoardStore_DeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()
	mock.ExpectExec("DELETE FROM boards").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewPostgresBoardStore(db, nil).Delete(context.Background(), id)

	assert.ErrorIs(t, err, store.ErrBoardNotFound)
}

func TestBoardStore_ListForUser(t *testing.T) {
	db, mock := newMockDB(t)
	userID := uuid.New()
	boardID := uuid.New()
	desc := "plans"

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "background", "owner_id", "created_at", "updated_at",
		"role", "list_count", "member_count",
	}).AddRow(boardID.String(), "Roadmap", desc, nil, userID.String(), fixedTime, fixedTime, "OWNER", 3, 2)
	mock.ExpectQuery("FROM boards b").WithArgs(userID).WillReturnRows(rows)

	boards, err := NewPostgresBoardStore(db, nil).ListForUser(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, boardID, boards[0].ID)
	assert.Equal(t, domain.RoleOwner, boards[0].Role)
	assert.Equal(t, 3, boards[0].ListCount)
	assert.Equal(t, 2, boards[0].MemberCount)
	require.NotNil(t, boards[0].Description)
	assert.Equal(t, "plans", *boards[0].Description)
	assert.Nil(t, boards[0].Background)
}
