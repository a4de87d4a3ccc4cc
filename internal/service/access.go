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

// memberRole returns userID's role on boardID. A non-member gets
// store.ErrBoardNotFound when the board does not exist and
// ErrNotBoardMember otherwise.
func memberRole(ctx context.Context, boards store.BoardStore, boardID, userID uuid.UUID) (domain.Role, error) {
	role, err := boards.GetMemberRole(ctx, boardID, userID)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, store.ErrMemberNotFound) {
		return "", err
	}

	if _, err := boards.GetByID(ctx, boardID); err != nil {
		return "", err
	}
	return "", ErrNotBoardMember
}

// requireManager is memberRole restricted to OWNER and ADMIN.
func requireManager(ctx context.Context, boards store.BoardStore, boardID, userID uuid.UUID) (domain.Role, error) {
	role, err := memberRole(ctx, boards, boardID, userID)
	if err != nil {
		return "", err
	}
	if !role.CanManage() {
		return role, ErrInsufficientPermissions
	}
	return role, nil
}

// emit publishes a board event. The change is already committed, so a
// failure is logged and not returned.
func emit(
	ctx context.Context,
	emitter events.EventEmitter,
	fallback *slog.Logger,
	eventType string,
	boardID, actorID uuid.UUID,
	payload interface{},
) {
	log := logger.FromContextOrDefault(ctx, fallback)

	event, err := events.NewBoardEvent(eventType, boardID, actorID, payload)
	if err != nil {
		log.Error("failed to build board event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}
	if err := emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("board event handler failed",
			slog.String("event_type", eventType),
			slog.String("board_id", boardID.String()),
			slog.String("error", err.Error()))
	}
}
