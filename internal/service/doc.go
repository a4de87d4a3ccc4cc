// Package service contains the task board's use cases: registering and
// authenticating users, managing boards and their members, and managing
// and reordering lists.
//
// Services depend on the store interfaces and on auth, never on a concrete
// database. Every board operation first resolves the caller's membership
// role and enforces the permission it requires. Mutations emit a
// events.BoardEvent once they are committed so the realtime relay can react.
//
// Expected failures are returned as sentinel errors (ErrNotBoardMember,
// ErrInsufficientPermissions, store.ErrBoardNotFound, ...) that callers
// check with errors.Is; unexpected ones are wrapped in a *ServiceError.
package service
