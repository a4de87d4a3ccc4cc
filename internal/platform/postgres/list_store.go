package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/redact"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// PostgresListStore implements the store.ListStore interface
// using a PostgreSQL database as the storage backend.
type PostgresListStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresListStore creates a new PostgreSQL implementation of the ListStore interface.
func NewPostgresListStore(db store.DBTX, logger *slog.Logger) *PostgresListStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresListStore{
		db:     db,
		logger: logger.With(slog.String("component", "list_store")),
	}
}

// Ensure PostgresListStore implements store.ListStore interface
var _ store.ListStore = (*PostgresListStore)(nil)

// WithTx implements store.ListStore.WithTx
func (s *PostgresListStore) WithTx(tx *sql.Tx) store.ListStore {
	return &PostgresListStore{db: tx, logger: s.logger}
}

// Create implements store.ListStore.Create
func (s *PostgresListStore) Create(ctx context.Context, list *domain.List) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := list.Validate(); err != nil {
		log.Warn("list validation failed during create",
			slog.String("error", err.Error()),
			slog.String("list_id", list.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lists (id, board_id, name, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, list.ID, list.BoardID, list.Name, list.Position, list.CreatedAt, list.UpdatedAt)
	if err != nil {
		log.Error("failed to create list",
			slog.String("list_id", list.ID.String()),
			slog.String("board_id", list.BoardID.String()),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}

	log.Info("list created",
		slog.String("list_id", list.ID.String()),
		slog.String("board_id", list.BoardID.String()),
		slog.Int("position", list.Position))
	return nil
}

// GetByID implements store.ListStore.GetByID
func (s *PostgresListStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	l := domain.List{Cards: []domain.CardSummary{}}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, board_id, name, position, created_at, updated_at,
		       (SELECT COUNT(*) FROM cards c WHERE c.list_id = lists.id)
		FROM lists WHERE id = $1
	`, id).Scan(&l.ID, &l.BoardID, &l.Name, &l.Position, &l.CreatedAt, &l.UpdatedAt, &l.CardCount)
	if err != nil {
		return nil, mapNotFound(err, store.ErrListNotFound)
	}
	return &l, nil
}

// MaxPosition implements store.ListStore.MaxPosition
func (s *PostgresListStore) MaxPosition(ctx context.Context, boardID uuid.UUID) (int, error) {
	var maxPos int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) FROM lists WHERE board_id = $1`, boardID).Scan(&maxPos)
	if err != nil {
		return 0, MapError(err)
	}
	return maxPos, nil
}

// Update implements store.ListStore.Update
func (s *PostgresListStore) Update(ctx context.Context, list *domain.List) error {
	if err := list.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE lists SET name = $1, position = $2, updated_at = $3 WHERE id = $4
	`, list.Name, list.Position, list.UpdatedAt, list.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update list",
			slog.String("list_id", list.ID.String()),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrListNotFound)
}

// Delete implements store.ListStore.Delete
func (s *PostgresListStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrListNotFound)
}

// UpdatePositions implements store.ListStore.UpdatePositions
func (s *PostgresListStore) UpdatePositions(
	ctx context.Context,
	boardID uuid.UUID,
	positions []domain.ListPosition,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	stmt, err := s.db.PrepareContext(ctx, `
		UPDATE lists SET position = $1, updated_at = $2 WHERE id = $3 AND board_id = $4
	`)
	if err != nil {
		return MapError(err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, p := range positions {
		result, err := stmt.ExecContext(ctx, p.Position, now, p.ID, boardID)
		if err != nil {
			log.Error("failed to update list position",
				slog.String("list_id", p.ID.String()),
				slog.String("error", redact.Error(err)))
			return MapError(err)
		}
		if err := CheckRowsAffected(result, store.ErrListNotFound); err != nil {
			log.Warn("list not on board during reorder",
				slog.String("list_id", p.ID.String()),
				slog.String("board_id", boardID.String()))
			return store.NewStoreError("list", "reorder",
				fmt.Sprintf("list %s is not on board %s", p.ID, boardID), err)
		}
	}

	log.Debug("list positions updated",
		slog.String("board_id", boardID.String()),
		slog.Int("count", len(positions)))
	return nil
}
