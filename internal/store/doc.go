// Package store defines the persistence contracts of the task board: users,
// boards with their memberships, and lists. Implementations live in
// internal/platform/postgres; services depend only on these interfaces and
// on RunInTransaction to group several store calls atomically.
package store
