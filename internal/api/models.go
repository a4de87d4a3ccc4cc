package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// Request bodies are validated for presence and shape only. Field rules
// such as username format and password length live in the domain.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"     validate:"required"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	User         domain.MemberUser `json:"user"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`

	// ExpiresAt is when the access token expires.
	ExpiresAt time.Time `json:"expiresAt"`
}

// ProfileResponse wraps the authenticated user.
type ProfileResponse struct {
	User *domain.User `json:"user"`
}

// CreateBoardRequest defines the payload for creating a board.
type CreateBoardRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description *string `json:"description"`
	Background  *string `json:"background"`
}

// UpdateBoardRequest is a partial board update; omitted fields are kept.
type UpdateBoardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Background  *string `json:"background"`
}

// AddMemberRequest invites an existing user to a board by email.
type AddMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"omitempty,oneof=ADMIN MEMBER"`
}

// CreateListRequest defines the payload for creating a list. Position
// defaults to the end of the board.
type CreateListRequest struct {
	Name     string `json:"name"     validate:"required"`
	Position *int   `json:"position" validate:"omitempty,min=0"`
}

// UpdateListRequest is a partial list update.
type UpdateListRequest struct {
	Name     *string `json:"name"`
	Position *int    `json:"position" validate:"omitempty,min=0"`
}

// ReorderListsRequest assigns new positions to lists of one board.
type ReorderListsRequest struct {
	BoardID string              `json:"boardId" validate:"required,uuid"`
	Lists   []ListPositionInput `json:"lists"   validate:"required,dive"`
}

// ListPositionInput is one entry of a reorder request.
type ListPositionInput struct {
	ID       string `json:"id"       validate:"required,uuid"`
	Position int    `json:"position" validate:"min=0"`
}

func authResultToResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		User:         publicUser(res.User),
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    res.ExpiresAt,
	}
}

func publicUser(u *domain.User) domain.MemberUser {
	if u == nil {
		return domain.MemberUser{}
	}
	return domain.MemberUser{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Name:     u.Name,
		Avatar:   u.Avatar,
	}
}

func (r ReorderListsRequest) positions() (uuid.UUID, []domain.ListPosition, error) {
	boardID, err := uuid.Parse(r.BoardID)
	if err != nil {
		return uuid.Nil, nil, domain.NewValidationError("boardId", "has invalid format", domain.ErrInvalidID)
	}

	out := make([]domain.ListPosition, 0, len(r.Lists))
	for _, l := range r.Lists {
		id, err := uuid.Parse(l.ID)
		if err != nil {
			return uuid.Nil, nil, domain.NewValidationError("lists.id", "has invalid format", domain.ErrInvalidID)
		}
		out = append(out, domain.ListPosition{ID: id, Position: l.Position})
	}
	return boardID, out, nil
}
