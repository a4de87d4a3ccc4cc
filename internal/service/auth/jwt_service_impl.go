package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
)

// MinSecretLength is the shortest HMAC secret accepted.
const MinSecretLength = 32

// defaultClockSkew tolerates minor drift between issuing and validating hosts.
const defaultClockSkew = 2 * time.Minute

// tokenKind holds everything that differs between access and refresh tokens.
type tokenKind struct {
	name       string
	key        []byte
	lifetime   time.Duration
	errInvalid error
	errExpired error
}

// hmacJWTService is an implementation of JWTService using HMAC-SHA256 signing.
type hmacJWTService struct {
	access    tokenKind
	refresh   tokenKind
	clock     clockwork.Clock
	clockSkew time.Duration
}

// jwtCustomClaims defines the structure of JWT claims we use
type jwtCustomClaims struct {
	UserID    uuid.UUID `json:"uid"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	TokenType string    `json:"type"`
	jwt.RegisteredClaims
}

// Ensure hmacJWTService implements JWTService interface
var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a JWT service from the auth configuration.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	return NewJWTServiceWithClock(cfg, clockwork.NewRealClock())
}

// NewJWTServiceWithClock is NewJWTService with an injectable clock.
func NewJWTServiceWithClock(cfg config.AuthConfig, clock clockwork.Clock) (JWTService, error) {
	if len(cfg.JWTSecret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)
	}
	if len(cfg.RefreshSecret) < MinSecretLength {
		return nil, fmt.Errorf("refresh secret must be at least %d characters", MinSecretLength)
	}
	if cfg.TokenLifetimeMinutes <= 0 || cfg.RefreshTokenLifetimeMinutes <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &hmacJWTService{
		access: tokenKind{
			name:       TokenTypeAccess,
			key:        []byte(cfg.JWTSecret),
			lifetime:   time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
			errInvalid: ErrInvalidToken,
			errExpired: ErrExpiredToken,
		},
		refresh: tokenKind{
			name:       TokenTypeRefresh,
			key:        []byte(cfg.RefreshSecret),
			lifetime:   time.Duration(cfg.RefreshTokenLifetimeMinutes) * time.Minute,
			errInvalid: ErrInvalidRefreshToken,
			errExpired: ErrExpiredRefreshToken,
		},
		clock:     clock,
		clockSkew: defaultClockSkew,
	}, nil
}

// AccessTokenLifetime implements JWTService.
func (s *hmacJWTService) AccessTokenLifetime() time.Duration {
	return s.access.lifetime
}

// GenerateToken creates a signed JWT access token.
func (s *hmacJWTService) GenerateToken(ctx context.Context, id Identity) (string, error) {
	return s.sign(ctx, s.access, id)
}

// GenerateRefreshToken creates a signed JWT refresh token.
func (s *hmacJWTService) GenerateRefreshToken(ctx context.Context, id Identity) (string, error) {
	return s.sign(ctx, s.refresh, id)
}

// ValidateToken validates a JWT access token.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.parse(ctx, s.access, tokenString)
}

// ValidateRefreshToken validates a JWT refresh token.
func (s *hmacJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.parse(ctx, s.refresh, tokenString)
}

func (s *hmacJWTService) sign(ctx context.Context, kind tokenKind, id Identity) (string, error) {
	now := s.clock.Now()

	claims := jwtCustomClaims{
		UserID:    id.UserID,
		Email:     id.Email,
		Username:  id.Username,
		TokenType: kind.name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(kind.lifetime)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(kind.key)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign token",
			slog.String("error", err.Error()),
			slog.String("user_id", id.UserID.String()),
			slog.String("token_type", kind.name))
		return "", fmt.Errorf("failed to sign %s token: %w", kind.name, err)
	}
	return signed, nil
}

func (s *hmacJWTService) parse(ctx context.Context, kind tokenKind, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx).With(slog.String("token_type", kind.name))
	now := s.clock.Now()

	var claims jwtCustomClaims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return kind.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: expired")
			return nil, kind.errExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
			log.Debug("token validation failed: not yet valid")
			if kind.name == TokenTypeAccess {
				return nil, ErrTokenNotYetValid
			}
			return nil, kind.errInvalid
		default:
			log.Debug("token validation failed",
				slog.String("error", err.Error()),
				slog.String("error_type", fmt.Sprintf("%T", err)))
			return nil, kind.errInvalid
		}
	}

	if !token.Valid || claims.UserID == uuid.Nil {
		log.Debug("token validation failed: invalid claims")
		return nil, kind.errInvalid
	}
	if claims.TokenType != kind.name {
		log.Debug("token validation failed: wrong token type",
			slog.String("actual", claims.TokenType))
		return nil, ErrWrongTokenType
	}

	return &Claims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Username:  claims.Username,
		TokenType: claims.TokenType,
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}
