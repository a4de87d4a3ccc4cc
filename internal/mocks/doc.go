// Package mocks provides hand-written mock implementations of the store,
// service and auth interfaces for tests.
//
// Each mock exposes one function field per interface method (CreateFn,
// GetByIDFn, ...). A nil field falls back to a simple default, usually the
// zero value or an in-memory map, so tests only stub what they exercise:
//
//	boards := &mocks.MockBoardStore{
//	    GetMemberRoleFn: func(ctx context.Context, boardID, userID uuid.UUID) (domain.Role, error) {
//	        return domain.RoleMember, nil
//	    },
//	}
//
// When adding a new mock, name the file after the interface and keep the
// function-field pattern.
package mocks
