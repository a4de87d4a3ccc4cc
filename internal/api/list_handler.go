package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// ListHandler handles list requests, including bulk reorder.
type ListHandler struct {
	lists  service.ListService
	logger *slog.Logger
}

// NewListHandler creates a ListHandler.
func NewListHandler(lists service.ListService, log *slog.Logger) (*ListHandler, error) {
	if lists == nil {
		return nil, domain.NewValidationError("lists", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}
	return &ListHandler{
		lists:  lists,
		logger: log.With(slog.String("component", "list_handler")),
	}, nil
}

// CreateList handles POST /api/boards/{boardId}/lists.
func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, boardID, ok := handleUserIDAndPathUUID(w, r, "boardId", log)
	if !ok {
		return
	}

	var req CreateListRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	list, err := h.lists.CreateList(r.Context(), boardID, userID, req.Name, req.Position)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create list")
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, "List created successfully", list)
}

// UpdateList handles PUT /api/lists/{id}.
func (h *ListHandler) UpdateList(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, listID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateListRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	list, err := h.lists.UpdateList(r.Context(), listID, userID, domain.ListUpdate{
		Name:     req.Name,
		Position: req.Position,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update list")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "List updated successfully", list)
}

// DeleteList handles DELETE /api/lists/{id}.
func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, listID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.lists.DeleteList(r.Context(), listID, userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete list")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "List deleted successfully", nil)
}

// ReorderLists handles PUT /api/lists/reorder. The batch is applied in
// one transaction; any list outside the board aborts it.
func (h *ListHandler) ReorderLists(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req ReorderListsRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	boardID, positions, err := req.positions()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.lists.ReorderLists(r.Context(), boardID, userID, positions); err != nil {
		HandleAPIError(w, r, err, "Failed to reorder lists")
		return
	}

	log.Debug("lists reordered",
		slog.String("board_id", boardID.String()),
		slog.Int("count", len(positions)))
	shared.RespondWithData(w, r, http.StatusOK, "Lists reordered successfully", nil)
}
