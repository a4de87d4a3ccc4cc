package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a member's role on a board.
type Role string

// Board roles, from most to least privileged.
const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// ParseRole converts s to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// CanManage reports whether r may edit the board and manage its members.
func (r Role) CanManage() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Permissions are the actions a member may perform on a board.
type Permissions struct {
	CanEdit        bool `json:"canEdit"`
	CanDelete      bool `json:"canDelete"`
	CanInvite      bool `json:"canInvite"`
	CanCreateLists bool `json:"canCreateLists"`
}

// PermissionsFor derives the permission set of role.
func PermissionsFor(role Role) Permissions {
	if !role.Valid() {
		return Permissions{}
	}
	return Permissions{
		CanEdit:        role.CanManage(),
		CanDelete:      role == RoleOwner,
		CanInvite:      role.CanManage(),
		CanCreateLists: true,
	}
}

// MemberUser is the public profile of a board member.
type MemberUser struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Avatar   *string   `json:"avatar,omitempty"`
}

// BoardMember links a user to a board with a role.
type BoardMember struct {
	BoardID  uuid.UUID  `json:"boardId"`
	UserID   uuid.UUID  `json:"userId"`
	Role     Role       `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
	User     MemberUser `json:"user"`
}

// NewBoardMember creates a membership record joined now.
func NewBoardMember(boardID, userID uuid.UUID, role Role) (*BoardMember, error) {
	if boardID == uuid.Nil {
		return nil, ErrEmptyBoardID
	}
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	return &BoardMember{
		BoardID:  boardID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}, nil
}
