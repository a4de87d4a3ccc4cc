package mocks

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
// Without function fields it behaves as an in-memory store keyed by email.
type MockUserStore struct {
	CreateFn                  func(ctx context.Context, user *domain.User) error
	GetByIDFn                 func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn              func(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmailOrUsernameFn func(ctx context.Context, email, username string) (bool, error)

	mu    sync.Mutex
	Users map[string]*domain.User
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{Users: make(map[string]*domain.User)}
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements store.UserStore.
// The default stores the user and moves Password into HashedPassword unchanged.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Users == nil {
		m.Users = make(map[string]*domain.User)
	}
	key := strings.ToLower(user.Email)
	if _, exists := m.Users[key]; exists {
		return store.ErrEmailExists
	}
	for _, u := range m.Users {
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	user.HashedPassword = user.Password
	user.Password = ""
	m.Users[key] = user
	return nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

// ExistsByEmailOrUsername implements store.UserStore.
func (m *MockUserStore) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	if m.ExistsByEmailOrUsernameFn != nil {
		return m.ExistsByEmailOrUsernameFn(ctx, email, username)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[strings.ToLower(email)]; ok {
		return true, nil
	}
	for _, u := range m.Users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// WithTx implements store.UserStore. The mock ignores the transaction.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
