package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	Name     string
}

// AuthResult is returned by every operation that issues tokens.
type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// UserService provides registration, login, token refresh and profile lookup.
type UserService interface {
	// Register creates a user and signs them in.
	// Returns ErrUserExists when the email or username is taken.
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)

	// Login verifies credentials and issues a token pair.
	// Returns ErrInvalidCredentials for an unknown email or wrong password.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Refresh exchanges a valid refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)

	// Profile returns the user with the given id.
	Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type userServiceImpl struct {
	users    store.UserStore
	tokens   auth.JWTService
	verifier auth.PasswordVerifier
	db       *sql.DB
	logger   *slog.Logger
}

// NewUserService creates a UserService. db is used to run registration in
// a transaction.
func NewUserService(
	users store.UserStore,
	tokens auth.JWTService,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		db:       db,
		logger:   logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.Register
func (s *userServiceImpl) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(in.Email, in.Username, in.Password, in.Name)
	if err != nil {
		log.Debug("registration rejected by validation", slog.String("error", err.Error()))
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.users.WithTx(tx)

		exists, err := txUsers.ExistsByEmailOrUsername(ctx, user.Email, user.Username)
		if err != nil {
			return err
		}
		if exists {
			return ErrUserExists
		}
		return txUsers.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) || store.IsDuplicateError(err) {
			log.Debug("registration with existing email or username")
			return nil, ErrUserExists
		}
		log.Error("failed to register user", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "register", "failed to create user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return s.issue(ctx, user)
}

// Login implements UserService.Login
func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "login", "failed to look up user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

// Refresh implements UserService.Refresh
// Token validation errors from auth are returned unchanged.
func (s *userServiceImpl) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		log.Debug("refresh token rejected", slog.String("error", err.Error()))
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Warn("refresh token for deleted user", slog.String("user_id", claims.UserID.String()))
			return nil, auth.ErrInvalidRefreshToken
		}
		return nil, NewServiceError("user", "refresh", "failed to load user", err)
	}

	return s.issue(ctx, user)
}

// Profile implements UserService.Profile
func (s *userServiceImpl) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		return nil, NewServiceError("user", "profile", "failed to load user", err)
	}
	return user, nil
}

func (s *userServiceImpl) issue(ctx context.Context, user *domain.User) (*AuthResult, error) {
	id := auth.Identity{UserID: user.ID, Email: user.Email, Username: user.Username}

	access, err := s.tokens.GenerateToken(ctx, id)
	if err != nil {
		return nil, NewServiceError("user", "issue tokens", "failed to generate access token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(ctx, id)
	if err != nil {
		return nil, NewServiceError("user", "issue tokens", "failed to generate refresh token", err)
	}

	return &AuthResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().UTC().Add(s.tokens.AccessTokenLifetime()),
	}, nil
}
