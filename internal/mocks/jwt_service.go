package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing.
type MockJWTService struct {
	GenerateTokenFn        func(ctx context.Context, id auth.Identity) (string, error)
	ValidateTokenFn        func(ctx context.Context, token string) (*auth.Claims, error)
	GenerateRefreshTokenFn func(ctx context.Context, id auth.Identity) (string, error)
	ValidateRefreshTokenFn func(ctx context.Context, token string) (*auth.Claims, error)

	// Defaults used when the function fields are nil.
	Token        string
	RefreshToken string
	Claims       *auth.Claims
	Err          error
	Lifetime     time.Duration
}

var _ auth.JWTService = (*MockJWTService)(nil)

// NewMockJWTService returns a mock issuing fixed tokens valid for 15 minutes.
func NewMockJWTService() *MockJWTService {
	return &MockJWTService{
		Token:        "mock-access-token",
		RefreshToken: "mock-refresh-token",
		Lifetime:     15 * time.Minute,
	}
}

// GenerateToken implements auth.JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, id auth.Identity) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, id)
	}
	return m.Token, m.Err
}

// ValidateToken implements auth.JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return m.Claims, m.Err
}

// GenerateRefreshToken implements auth.JWTService.
func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, id auth.Identity) (string, error) {
	if m.GenerateRefreshTokenFn != nil {
		return m.GenerateRefreshTokenFn(ctx, id)
	}
	return m.RefreshToken, m.Err
}

// ValidateRefreshToken implements auth.JWTService.
func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, token)
	}
	return m.Claims, m.Err
}

// AccessTokenLifetime implements auth.JWTService.
func (m *MockJWTService) AccessTokenLifetime() time.Duration {
	return m.Lifetime
}
