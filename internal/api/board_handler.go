package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// BoardHandler handles board and membership requests.
type BoardHandler struct {
	boards service.BoardService
	logger *slog.Logger
}

// NewBoardHandler creates a BoardHandler.
func NewBoardHandler(boards service.BoardService, log *slog.Logger) (*BoardHandler, error) {
	if boards == nil {
		return nil, domain.NewValidationError("boards", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}
	return &BoardHandler{
		boards: boards,
		logger: log.With(slog.String("component", "board_handler")),
	}, nil
}

// CreateBoard handles POST /api/boards.
func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	board, err := h.boards.CreateBoard(r.Context(), userID, service.CreateBoardInput{
		Name:        req.Name,
		Description: req.Description,
		Background:  req.Background,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create board")
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, "Board created successfully", board)
}

// ListBoards handles GET /api/boards.
func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	boards, err := h.boards.ListBoards(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve boards")
		return
	}
	if boards == nil {
		boards = []domain.BoardSummary{}
	}

	shared.RespondWithData(w, r, http.StatusOK, "Boards retrieved successfully", boards)
}

// GetBoard handles GET /api/boards/{id}.
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, boardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	details, err := h.boards.GetBoard(r.Context(), boardID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve board")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Board retrieved successfully", details)
}

// UpdateBoard handles PUT /api/boards/{id}.
func (h *BoardHandler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, boardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateBoardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	board, err := h.boards.UpdateBoard(r.Context(), boardID, userID, domain.BoardUpdate{
		Name:        req.Name,
		Description: req.Description,
		Background:  req.Background,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update board")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Board updated successfully", board)
}

// DeleteBoard handles DELETE /api/boards/{id}.
func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, boardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.boards.DeleteBoard(r.Context(), boardID, userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete board")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Board deleted successfully", nil)
}

// AddMember handles POST /api/boards/{id}/members.
func (h *BoardHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, boardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req AddMemberRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	member, err := h.boards.AddMember(r.Context(), boardID, userID, req.Email, domain.Role(req.Role))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add member")
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, "Member added successfully", member)
}

// RemoveMember handles DELETE /api/boards/{id}/members/{userId}. Members
// may remove themselves; managers may remove anyone but the owner.
func (h *BoardHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, boardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}
	memberID, err := getPathUUID(r, "userId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.boards.RemoveMember(r.Context(), boardID, userID, memberID); err != nil {
		HandleAPIError(w, r, err, "Failed to remove member")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Member removed successfully", nil)
}
