package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// MockUserService implements service.UserService for handler tests.
type MockUserService struct {
	RegisterFn func(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	LoginFn    func(ctx context.Context, email, password string) (*service.AuthResult, error)
	RefreshFn  func(ctx context.Context, refreshToken string) (*service.AuthResult, error)
	ProfileFn  func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

var _ service.UserService = (*MockUserService)(nil)

// Register implements service.UserService.
func (m *MockUserService) Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, in)
	}
	return nil, nil
}

// Login implements service.UserService.
func (m *MockUserService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return nil, nil
}

// Refresh implements service.UserService.
func (m *MockUserService) Refresh(ctx context.Context, refreshToken string) (*service.AuthResult, error) {
	if m.RefreshFn != nil {
		return m.RefreshFn(ctx, refreshToken)
	}
	return nil, nil
}

// Profile implements service.UserService.
func (m *MockUserService) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.ProfileFn != nil {
		return m.ProfileFn(ctx, userID)
	}
	return nil, nil
}
