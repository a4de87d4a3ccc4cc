package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// CreateBoardInput carries the fields of a new board.
type CreateBoardInput struct {
	Name        string
	Description *string
	Background  *string
}

// BoardService manages boards and their memberships.
type BoardService interface {
	// CreateBoard creates a board owned by userID.
	CreateBoard(ctx context.Context, userID uuid.UUID, in CreateBoardInput) (*domain.Board, error)

	// ListBoards returns the boards userID belongs to, most recently updated first.
	ListBoards(ctx context.Context, userID uuid.UUID) ([]domain.BoardSummary, error)

	// GetBoard returns a board with its lists and members, plus the caller's
	// role and permissions. Non-members get store.ErrBoardNotFound.
	GetBoard(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardDetails, error)

	// UpdateBoard applies a partial update. Requires OWNER or ADMIN.
	UpdateBoard(ctx context.Context, boardID, userID uuid.UUID, upd domain.BoardUpdate) (*domain.Board, error)

	// DeleteBoard removes a board with everything on it. Requires OWNER.
	DeleteBoard(ctx context.Context, boardID, userID uuid.UUID) error

	// AddMember adds the user registered under email with role ADMIN or
	// MEMBER. Requires OWNER or ADMIN.
	AddMember(ctx context.Context, boardID, actorID uuid.UUID, email string, role domain.Role) (*domain.BoardMember, error)

	// RemoveMember removes memberID from the board. OWNER and ADMIN may
	// remove others; any member may remove themselves. The owner cannot be removed.
	RemoveMember(ctx context.Context, boardID, actorID, memberID uuid.UUID) error

	// CanAccess reports whether userID is a member of boardID.
	CanAccess(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
}

type boardServiceImpl struct {
	boards  store.BoardStore
	users   store.UserStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewBoardService creates a BoardService.
func NewBoardService(
	boards store.BoardStore,
	users store.UserStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (BoardService, error) {
	if boards == nil {
		return nil, domain.NewValidationError("boards", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &boardServiceImpl{
		boards:  boards,
		users:   users,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "board_service")),
	}, nil
}

// CreateBoard implements BoardService.CreateBoard
func (s *boardServiceImpl) CreateBoard(ctx context.Context, userID uuid.UUID, in CreateBoardInput) (*domain.Board, error) {
	board, err := domain.NewBoard(userID, in.Name, in.Description, in.Background)
	if err != nil {
		return nil, err
	}

	if err := s.boards.Create(ctx, board); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		return nil, NewServiceError("board", "create", "failed to save board", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("board created",
		slog.String("board_id", board.ID.String()),
		slog.String("user_id", userID.String()))
	return board, nil
}

// ListBoards implements BoardService.ListBoards
func (s *boardServiceImpl) ListBoards(ctx context.Context, userID uuid.UUID) ([]domain.BoardSummary, error) {
	boards, err := s.boards.ListForUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("board", "list", "failed to list boards", err)
	}
	return boards, nil
}

// GetBoard implements BoardService.GetBoard
func (s *boardServiceImpl) GetBoard(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardDetails, error) {
	role, err := s.boards.GetMemberRole(ctx, boardID, userID)
	if err != nil {
		if errors.Is(err, store.ErrMemberNotFound) {
			// Hide boards the caller cannot see.
			return nil, store.ErrBoardNotFound
		}
		return nil, NewServiceError("board", "get", "failed to resolve membership", err)
	}

	details, err := s.boards.GetDetails(ctx, boardID)
	if err != nil {
		if errors.Is(err, store.ErrBoardNotFound) {
			return nil, err
		}
		return nil, NewServiceError("board", "get", "failed to load board", err)
	}

	details.CurrentUserRole = role
	details.Permissions = domain.PermissionsFor(role)
	return details, nil
}

// UpdateBoard implements BoardService.UpdateBoard
func (s *boardServiceImpl) UpdateBoard(
	ctx context.Context,
	boardID, userID uuid.UUID,
	upd domain.BoardUpdate,
) (*domain.Board, error) {
	if err := upd.Normalize(); err != nil {
		return nil, err
	}
	if _, err := requireManager(ctx, s.boards, boardID, userID); err != nil {
		return nil, err
	}

	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	upd.Apply(board)

	if err := s.boards.Update(ctx, board); err != nil {
		if errors.Is(err, store.ErrBoardNotFound) {
			return nil, err
		}
		return nil, NewServiceError("board", "update", "failed to save board", err)
	}

	emit(ctx, s.emitter, s.logger, events.TypeBoardUpdated, boardID, userID, board)
	return board, nil
}

// DeleteBoard implements BoardService.DeleteBoard
func (s *boardServiceImpl) DeleteBoard(ctx context.Context, boardID, userID uuid.UUID) error {
	role, err := memberRole(ctx, s.boards, boardID, userID)
	if err != nil {
		return err
	}
	if role != domain.RoleOwner {
		return ErrInsufficientPermissions
	}

	if err := s.boards.Delete(ctx, boardID); err != nil {
		if errors.Is(err, store.ErrBoardNotFound) {
			return err
		}
		return NewServiceError("board", "delete", "failed to delete board", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("board deleted",
		slog.String("board_id", boardID.String()),
		slog.String("user_id", userID.String()))
	emit(ctx, s.emitter, s.logger, events.TypeBoardDeleted, boardID, userID, nil)
	return nil
}

// AddMember implements BoardService.AddMember
func (s *boardServiceImpl) AddMember(
	ctx context.Context,
	boardID, actorID uuid.UUID,
	email string,
	role domain.Role,
) (*domain.BoardMember, error) {
	if role == "" {
		role = domain.RoleMember
	}
	if role != domain.RoleAdmin && role != domain.RoleMember {
		return nil, domain.NewValidationError("role", "must be ADMIN or MEMBER", domain.ErrInvalidRole)
	}
	if _, err := requireManager(ctx, s.boards, boardID, actorID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	member, err := domain.NewBoardMember(boardID, user.ID, role)
	if err != nil {
		return nil, err
	}
	if err := s.boards.AddMember(ctx, member); err != nil {
		if errors.Is(err, store.ErrMemberExists) || store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("board", "add member", "failed to add member", err)
	}
	member.User = user.Public()

	if err := s.boards.Touch(ctx, boardID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to touch board",
			slog.String("board_id", boardID.String()),
			slog.String("error", err.Error()))
	}

	emit(ctx, s.emitter, s.logger, events.TypeMemberAdded, boardID, actorID,
		events.MemberPayload{UserID: user.ID})
	return member, nil
}

// RemoveMember implements BoardService.RemoveMember
func (s *boardServiceImpl) RemoveMember(ctx context.Context, boardID, actorID, memberID uuid.UUID) error {
	actorRole, err := memberRole(ctx, s.boards, boardID, actorID)
	if err != nil {
		return err
	}

	if memberID != actorID && !actorRole.CanManage() {
		return ErrInsufficientPermissions
	}

	targetRole := actorRole
	if memberID != actorID {
		targetRole, err = s.boards.GetMemberRole(ctx, boardID, memberID)
		if err != nil {
			return err
		}
	}
	if targetRole == domain.RoleOwner {
		return ErrCannotRemoveOwner
	}

	if err := s.boards.RemoveMember(ctx, boardID, memberID); err != nil {
		if errors.Is(err, store.ErrMemberNotFound) {
			return err
		}
		return NewServiceError("board", "remove member", "failed to remove member", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("board member removed",
		slog.String("board_id", boardID.String()),
		slog.String("member_id", memberID.String()),
		slog.String("actor_id", actorID.String()))
	emit(ctx, s.emitter, s.logger, events.TypeMemberRemoved, boardID, actorID,
		events.MemberPayload{UserID: memberID})
	return nil
}

// CanAccess implements BoardService.CanAccess
func (s *boardServiceImpl) CanAccess(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	_, err := s.boards.GetMemberRole(ctx, boardID, userID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrMemberNotFound):
		return false, nil
	default:
		return false, NewServiceError("board", "check access", "failed to resolve membership", err)
	}
}
