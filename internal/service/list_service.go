package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// ListService manages the lists on a board.
type ListService interface {
	// CreateList appends a list to the board, or places it at position when given.
	CreateList(ctx context.Context, boardID, userID uuid.UUID, name string, position *int) (*domain.List, error)

	// UpdateList renames or repositions a single list.
	UpdateList(ctx context.Context, listID, userID uuid.UUID, upd domain.ListUpdate) (*domain.List, error)

	// DeleteList removes a list and its cards.
	DeleteList(ctx context.Context, listID, userID uuid.UUID) error

	// ReorderLists assigns positions to lists of one board in a single
	// transaction. The client's order is trusted; every id must belong to
	// the board or nothing is changed.
	ReorderLists(ctx context.Context, boardID, userID uuid.UUID, positions []domain.ListPosition) error
}

type listServiceImpl struct {
	lists   store.ListStore
	boards  store.BoardStore
	db      *sql.DB
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewListService creates a ListService. db is used for the reorder transaction.
func NewListService(
	lists store.ListStore,
	boards store.BoardStore,
	db *sql.DB,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (ListService, error) {
	if lists == nil {
		return nil, domain.NewValidationError("lists", "cannot be nil", domain.ErrValidation)
	}
	if boards == nil {
		return nil, domain.NewValidationError("boards", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &listServiceImpl{
		lists:   lists,
		boards:  boards,
		db:      db,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "list_service")),
	}, nil
}

// CreateList implements ListService.CreateList
func (s *listServiceImpl) CreateList(
	ctx context.Context,
	boardID, userID uuid.UUID,
	name string,
	position *int,
) (*domain.List, error) {
	if _, err := memberRole(ctx, s.boards, boardID, userID); err != nil {
		return nil, err
	}

	pos := 0
	if position != nil {
		pos = *position
	} else {
		maxPos, err := s.lists.MaxPosition(ctx, boardID)
		if err != nil {
			return nil, NewServiceError("list", "create", "failed to determine position", err)
		}
		pos = maxPos + 1
	}

	list, err := domain.NewList(boardID, name, pos)
	if err != nil {
		return nil, err
	}
	if err := s.lists.Create(ctx, list); err != nil {
		if errors.Is(err, store.ErrBoardNotFound) {
			return nil, err
		}
		return nil, NewServiceError("list", "create", "failed to save list", err)
	}
	s.touch(ctx, boardID)

	emit(ctx, s.emitter, s.logger, events.TypeListCreated, boardID, userID, list)
	return list, nil
}

// UpdateList implements ListService.UpdateList
func (s *listServiceImpl) UpdateList(
	ctx context.Context,
	listID, userID uuid.UUID,
	upd domain.ListUpdate,
) (*domain.List, error) {
	if err := upd.Normalize(); err != nil {
		return nil, err
	}

	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if _, err := memberRole(ctx, s.boards, list.BoardID, userID); err != nil {
		return nil, err
	}

	upd.Apply(list)
	if err := s.lists.Update(ctx, list); err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return nil, err
		}
		return nil, NewServiceError("list", "update", "failed to save list", err)
	}
	s.touch(ctx, list.BoardID)

	emit(ctx, s.emitter, s.logger, events.TypeListUpdated, list.BoardID, userID, list)
	return list, nil
}

// DeleteList implements ListService.DeleteList
func (s *listServiceImpl) DeleteList(ctx context.Context, listID, userID uuid.UUID) error {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return err
	}
	if _, err := memberRole(ctx, s.boards, list.BoardID, userID); err != nil {
		return err
	}

	if err := s.lists.Delete(ctx, listID); err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return err
		}
		return NewServiceError("list", "delete", "failed to delete list", err)
	}
	s.touch(ctx, list.BoardID)

	emit(ctx, s.emitter, s.logger, events.TypeListDeleted, list.BoardID, userID,
		map[string]uuid.UUID{"listId": listID})
	return nil
}

// ReorderLists implements ListService.ReorderLists
func (s *listServiceImpl) ReorderLists(
	ctx context.Context,
	boardID, userID uuid.UUID,
	positions []domain.ListPosition,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateReorder(positions); err != nil {
		return err
	}
	if _, err := memberRole(ctx, s.boards, boardID, userID); err != nil {
		return err
	}
	if len(positions) == 0 {
		log.Debug("empty reorder batch", slog.String("board_id", boardID.String()))
		return nil
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.lists.WithTx(tx).UpdatePositions(ctx, boardID, positions); err != nil {
			return err
		}
		return s.boards.WithTx(tx).Touch(ctx, boardID)
	})
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			log.Debug("reorder referenced a list outside the board",
				slog.String("board_id", boardID.String()))
			return err
		}
		return NewServiceError("list", "reorder", "failed to update positions", err)
	}

	log.Info("lists reordered",
		slog.String("board_id", boardID.String()),
		slog.Int("count", len(positions)))
	emit(ctx, s.emitter, s.logger, events.TypeListsReordered, boardID, userID, positions)
	return nil
}

func (s *listServiceImpl) touch(ctx context.Context, boardID uuid.UUID) {
	if err := s.boards.Touch(ctx, boardID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to touch board",
			slog.String("board_id", boardID.String()),
			slog.String("error", err.Error()))
	}
}
