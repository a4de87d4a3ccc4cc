package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBoard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("created", func(t *testing.T) {
		t.Parallel()

		svc := newTestServices()
		svc.boards.CreateBoardFn = func(ctx context.Context, uid uuid.UUID, in service.CreateBoardInput) (*domain.Board, error) {
			assert.Equal(t, userID, uid)
			require.NotNil(t, in.Description)
			return domain.NewBoard(uid, in.Name, in.Description, in.Background)
		}

		rec := doRequest(t, svc.router(t, userID), http.MethodPost, "/api/boards",
			map[string]interface{}{"name": "Roadmap", "description": "Q3"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Board created successfully", env.Message)

		var board domain.Board
		require.NoError(t, json.Unmarshal(env.Data, &board))
		assert.Equal(t, "Roadmap", board.Name)
		assert.Equal(t, userID, board.OwnerID)
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()

		rec := doRequest(t, newTestServices().router(t, userID), http.MethodPost, "/api/boards",
			map[string]interface{}{"description": "Q3"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid name: required field", decodeEnvelope(t, rec).Error)
	})

	t.Run("name too long", func(t *testing.T) {
		t.Parallel()

		svc := newTestServices()
		svc.boards.CreateBoardFn = func(ctx context.Context, uid uuid.UUID, in service.CreateBoardInput) (*domain.Board, error) {
			return nil, domain.ErrInvalidBoardName
		}

		rec := doRequest(t, svc.router(t, userID), http.MethodPost, "/api/boards", map[string]string{"name": "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, domain.ErrInvalidBoardName.Error(), decodeEnvelope(t, rec).Error)
	})
}

func TestListBoards(t *testing.T) {
	t.Parallel()

	t.Run("empty list is an array", func(t *testing.T) {
		t.Parallel()

		rec := doRequest(t, newTestServices().router(t, uuid.New()), http.MethodGet, "/api/boards", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Boards retrieved successfully", env.Message)
		assert.JSONEq(t, `[]`, string(env.Data))
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		svc := newTestServices()
		svc.boards.ListBoardsFn = func(ctx context.Context, userID uuid.UUID) ([]domain.BoardSummary, error) {
			return nil, service.NewServiceError("board", "list", "failed to list boards", errors.New("connection refused"))
		}

		rec := doRequest(t, svc.router(t, uuid.New()), http.MethodGet, "/api/boards", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to retrieve boards", decodeEnvelope(t, rec).Error)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestGetBoard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	boardID := uuid.New()

	tests := []struct {
		name       string
		path       string
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{name: "member", path: "/api/boards/" + boardID.String(), wantStatus: http.StatusOK},
		{name: "not found or not a member", path: "/api/boards/" + boardID.String(), serviceErr: store.ErrBoardNotFound, wantStatus: http.StatusNotFound, wantError: "Board not found"},
		{name: "malformed id", path: "/api/boards/not-a-uuid", wantStatus: http.StatusBadRequest, wantError: "id has invalid format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestServices()
			svc.boards.GetBoardFn = func(ctx context.Context, bid, uid uuid.UUID) (*domain.BoardDetails, error) {
				assert.Equal(t, boardID, bid)
				assert.Equal(t, userID, uid)
				if tc.serviceErr != nil {
					return nil, tc.serviceErr
				}
				return &domain.BoardDetails{
					Board:           domain.Board{ID: bid, Name: "Roadmap", OwnerID: uid},
					Lists:           []domain.List{},
					Members:         []domain.BoardMember{},
					CurrentUserRole: domain.RoleOwner,
					Permissions:     domain.PermissionsFor(domain.RoleOwner),
				}, nil
			}

			rec := doRequest(t, svc.router(t, userID), http.MethodGet, tc.path, nil)
			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())

			env := decodeEnvelope(t, rec)
			if tc.wantError != "" {
				assert.Equal(t, tc.wantError, env.Error)
				return
			}
			assert.Equal(t, "Board retrieved successfully", env.Message)

			var details domain.BoardDetails
			require.NoError(t, json.Unmarshal(env.Data, &details))
			assert.Equal(t, boardID, details.ID)
			assert.Equal(t, domain.RoleOwner, details.CurrentUserRole)
			assert.True(t, details.Permissions.CanDelete)
		})
	}
}

func TestUpdateBoard(t *testing.T) {
	t.Parallel()

	boardID := uuid.New()
	path := "/api/boards/" + boardID.String()

	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{name: "updated", wantStatus: http.StatusOK},
		{name: "plain member", serviceErr: service.ErrInsufficientPermissions, wantStatus: http.StatusForbidden, wantError: "Insufficient permissions"},
		{name: "outsider", serviceErr: service.ErrNotBoardMember, wantStatus: http.StatusForbidden, wantError: "You are not a member of this board"},
		{name: "missing board", serviceErr: store.ErrBoardNotFound, wantStatus: http.StatusNotFound, wantError: "Board not found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestServices()
			svc.boards.UpdateBoardFn = func(ctx context.Context, bid, uid uuid.UUID, upd domain.BoardUpdate) (*domain.Board, error) {
				require.NotNil(t, upd.Name)
				assert.Nil(t, upd.Description)
				if tc.serviceErr != nil {
					return nil, tc.serviceErr
				}
				return &domain.Board{ID: bid, Name: *upd.Name}, nil
			}

			rec := doRequest(t, svc.router(t, uuid.New()), http.MethodPut, path, map[string]string{"name": "Renamed"})
			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())

			env := decodeEnvelope(t, rec)
			if tc.wantError != "" {
				assert.Equal(t, tc.wantError, env.Error)
				return
			}
			assert.Equal(t, "Board updated successfully", env.Message)
		})
	}
}

func TestDeleteBoard(t *testing.T) {
	t.Parallel()

	boardID := uuid.New()
	path := "/api/boards/" + boardID.String()

	t.Run("owner", func(t *testing.T) {
		t.Parallel()

		var deleted uuid.UUID
		svc := newTestServices()
		svc.boards.DeleteBoardFn = func(ctx context.Context, bid, uid uuid.UUID) error {
			deleted = bid
			return nil
		}

		rec := doRequest(t, svc.router(t, uuid.New()), http.MethodDelete, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Board deleted successfully", decodeEnvelope(t, rec).Message)
		assert.Equal(t, boardID, deleted)
	})

	t.Run("admin", func(t *testing.T) {
		t.Parallel()

		svc := newTestServices()
		svc.boards.DeleteBoardFn = func(ctx context.Context, bid, uid uuid.UUID) error {
			return service.ErrInsufficientPermissions
		}

		rec := doRequest(t, svc.router(t, uuid.New()), http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAddMember(t *testing.T) {
	t.Parallel()

	boardID := uuid.New()
	path := "/api/boards/" + boardID.String() + "/members"

	tests := []struct {
		name       string
		payload    map[string]string
		serviceErr error
		wantRole   domain.Role
		wantStatus int
		wantError  string
	}{
		{name: "default role", payload: map[string]string{"email": "bob@example.com"}, wantStatus: http.StatusCreated},
		{name: "admin role", payload: map[string]string{"email": "bob@example.com", "role": "ADMIN"}, wantRole: domain.RoleAdmin, wantStatus: http.StatusCreated},
		{name: "owner role rejected", payload: map[string]string{"email": "bob@example.com", "role": "OWNER"}, wantStatus: http.StatusBadRequest, wantError: "Invalid role: invalid value"},
		{name: "unknown user", payload: map[string]string{"email": "ghost@example.com"}, serviceErr: store.ErrUserNotFound, wantStatus: http.StatusNotFound, wantError: "User not found"},
		{name: "already a member", payload: map[string]string{"email": "bob@example.com"}, serviceErr: store.ErrMemberExists, wantStatus: http.StatusConflict, wantError: "User is already a member of this board"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestServices()
			svc.boards.AddMemberFn = func(
				ctx context.Context, bid, actor uuid.UUID, email string, role domain.Role,
			) (*domain.BoardMember, error) {
				assert.Equal(t, tc.wantRole, role)
				if tc.serviceErr != nil {
					return nil, tc.serviceErr
				}
				return &domain.BoardMember{BoardID: bid, UserID: uuid.New(), Role: domain.RoleMember}, nil
			}

			rec := doRequest(t, svc.router(t, uuid.New()), http.MethodPost, path, tc.payload)
			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())

			env := decodeEnvelope(t, rec)
			if tc.wantError != "" {
				assert.Equal(t, tc.wantError, env.Error)
				return
			}
			assert.Equal(t, "Member added successfully", env.Message)
		})
	}
}

func TestRemoveMember(t *testing.T) {
	t.Parallel()

	boardID := uuid.New()
	memberID := uuid.New()

	t.Run("removed", func(t *testing.T) {
		t.Parallel()

		svc := newTestServices()
		svc.boards.RemoveMemberFn = func(ctx context.Context, bid, actor, member uuid.UUID) error {
			assert.Equal(t, boardID, bid)
			assert.Equal(t, memberID, member)
			return nil
		}

		rec := doRequest(t, svc.router(t, uuid.New()), http.MethodDelete,
			"/api/boards/"+boardID.String()+"/members/"+memberID.String(), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Member removed successfully", decodeEnvelope(t, rec).Message)
	})

	t.Run("owner cannot be removed", func(t *testing.T) {
		t.Parallel()

		svc := newTestServices()
		svc.boards.RemoveMemberFn = func(ctx context.Context, bid, actor, member uuid.UUID) error {
			return service.ErrCannotRemoveOwner
		}

		rec := doRequest(t, svc.router(t, uuid.New()), http.MethodDelete,
			"/api/boards/"+boardID.String()+"/members/"+memberID.String(), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "The board owner cannot be removed", decodeEnvelope(t, rec).Error)
	})

	t.Run("malformed member id", func(t *testing.T) {
		t.Parallel()

		rec := doRequest(t, newTestServices().router(t, uuid.New()), http.MethodDelete,
			"/api/boards/"+boardID.String()+"/members/nope", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "userId has invalid format", decodeEnvelope(t, rec).Error)
	})
}
