package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/redact"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// PostgresBoardStore implements the store.BoardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBoardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBoardStore creates a new PostgreSQL implementation of the BoardStore interface.
func NewPostgresBoardStore(db store.DBTX, logger *slog.Logger) *PostgresBoardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBoardStore{
		db:     db,
		logger: logger.With(slog.String("component", "board_store")),
	}
}

// Ensure PostgresBoardStore implements store.BoardStore interface
var _ store.BoardStore = (*PostgresBoardStore)(nil)

// WithTx implements store.BoardStore.WithTx
func (s *PostgresBoardStore) WithTx(tx *sql.Tx) store.BoardStore {
	return &PostgresBoardStore{db: tx, logger: s.logger}
}

// Create implements store.BoardStore.Create
// The board row and its OWNER membership are written by one statement.
func (s *PostgresBoardStore) Create(ctx context.Context, board *domain.Board) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := board.Validate(); err != nil {
		log.Warn("board validation failed during create",
			slog.String("error", err.Error()),
			slog.String("board_id", board.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		WITH new_board AS (
			INSERT INTO boards (id, name, description, background, owner_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, owner_id, created_at
		)
		INSERT INTO board_members (board_id, user_id, role, joined_at)
		SELECT id, owner_id, $8, created_at FROM new_board
	`,
		board.ID,
		board.Name,
		board.Description,
		board.Background,
		board.OwnerID,
		board.CreatedAt,
		board.UpdatedAt,
		string(domain.RoleOwner),
	)
	if err != nil {
		log.Error("failed to create board",
			slog.String("board_id", board.ID.String()),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}

	log.Info("board created",
		slog.String("board_id", board.ID.String()),
		slog.String("owner_id", board.OwnerID.String()))
	return nil
}

// ListForUser implements store.BoardStore.ListForUser
func (s *PostgresBoardStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.BoardSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.name, b.description, b.background, b.owner_id, b.created_at, b.updated_at,
		       m.role,
		       (SELECT COUNT(*) FROM lists l WHERE l.board_id = b.id),
		       (SELECT COUNT(*) FROM board_members bm WHERE bm.board_id = b.id)
		FROM boards b
		JOIN board_members m ON m.board_id = b.id AND m.user_id = $1
		ORDER BY b.updated_at DESC
	`, userID)
	if err != nil {
		log.Error("failed to list boards",
			slog.String("user_id", userID.String()),
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	boards := []domain.BoardSummary{}
	for rows.Next() {
		var b domain.BoardSummary
		var role string
		if err := rows.Scan(
			&b.ID,
			&b.Name,
			&b.Description,
			&b.Background,
			&b.OwnerID,
			&b.CreatedAt,
			&b.UpdatedAt,
			&role,
			&b.ListCount,
			&b.MemberCount,
		); err != nil {
			return nil, MapError(err)
		}
		b.Role = domain.Role(role)
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return boards, nil
}

// GetByID implements store.BoardStore.GetByID
func (s *PostgresBoardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var b domain.Board
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, background, owner_id, created_at, updated_at
		FROM boards WHERE id = $1
	`, id).Scan(
		&b.ID,
		&b.Name,
		&b.Description,
		&b.Background,
		&b.OwnerID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get board",
				slog.String("board_id", id.String()),
				slog.String("error", redact.Error(err)))
		}
		return nil, mapNotFound(err, store.ErrBoardNotFound)
	}
	return &b, nil
}

// GetDetails implements store.BoardStore.GetDetails
func (s *PostgresBoardStore) GetDetails(ctx context.Context, id uuid.UUID) (*domain.BoardDetails, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	board, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &domain.BoardDetails{
		Board:   *board,
		Lists:   []domain.List{},
		Members: []domain.BoardMember{},
	}

	if details.Lists, err = s.boardLists(ctx, id); err != nil {
		log.Error("failed to load board lists",
			slog.String("board_id", id.String()),
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	if details.Members, err = s.boardMembers(ctx, id); err != nil {
		log.Error("failed to load board members",
			slog.String("board_id", id.String()),
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}

	details.ListCount = len(details.Lists)
	details.MemberCount = len(details.Members)
	return details, nil
}

func (s *PostgresBoardStore) boardLists(ctx context.Context, boardID uuid.UUID) ([]domain.List, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, board_id, name, position, created_at, updated_at
		FROM lists
		WHERE board_id = $1
		ORDER BY position ASC, created_at ASC
	`, boardID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	lists := []domain.List{}
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		l := domain.List{Cards: []domain.CardSummary{}}
		if err := rows.Scan(&l.ID, &l.BoardID, &l.Name, &l.Position, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		index[l.ID] = len(lists)
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return lists, nil
	}

	cardRows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.list_id, c.title, c.position, c.due_date
		FROM cards c
		JOIN lists l ON l.id = c.list_id
		WHERE l.board_id = $1
		ORDER BY c.position ASC, c.created_at ASC
	`, boardID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cardRows.Close() }()

	for cardRows.Next() {
		var c domain.CardSummary
		var due sql.NullTime
		if err := cardRows.Scan(&c.ID, &c.ListID, &c.Title, &c.Position, &due); err != nil {
			return nil, err
		}
		if due.Valid {
			t := due.Time
			c.DueDate = &t
		}
		if i, ok := index[c.ListID]; ok {
			lists[i].Cards = append(lists[i].Cards, c)
			lists[i].CardCount++
		}
	}
	return lists, cardRows.Err()
}

func (s *PostgresBoardStore) boardMembers(ctx context.Context, boardID uuid.UUID) ([]domain.BoardMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.board_id, m.user_id, m.role, m.joined_at,
		       u.id, u.email, u.username, u.name, u.avatar
		FROM board_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.board_id = $1
		ORDER BY m.joined_at ASC
	`, boardID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	members := []domain.BoardMember{}
	for rows.Next() {
		var m domain.BoardMember
		var role string
		if err := rows.Scan(
			&m.BoardID,
			&m.UserID,
			&role,
			&m.JoinedAt,
			&m.User.ID,
			&m.User.Email,
			&m.User.Username,
			&m.User.Name,
			&m.User.Avatar,
		); err != nil {
			return nil, err
		}
		m.Role = domain.Role(role)
		members = append(members, m)
	}
	return members, rows.Err()
}

// Update implements store.BoardStore.Update
func (s *PostgresBoardStore) Update(ctx context.Context, board *domain.Board) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := board.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE boards
		SET name = $1, description = $2, background = $3, updated_at = $4
		WHERE id = $5
	`, board.Name, board.Description, board.Background, board.UpdatedAt, board.ID)
	if err != nil {
		log.Error("failed to update board",
			slog.String("board_id", board.ID.String()),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrBoardNotFound)
}

// Delete implements store.BoardStore.Delete
func (s *PostgresBoardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete board",
			slog.String("board_id", id.String()),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrBoardNotFound); err != nil {
		return err
	}

	log.Info("board deleted", slog.String("board_id", id.String()))
	return nil
}

// GetMemberRole implements store.BoardStore.GetMemberRole
func (s *PostgresBoardStore) GetMemberRole(ctx context.Context, boardID, userID uuid.UUID) (domain.Role, error) {
	var role string
	err := s.db.QueryRowContext(ctx, `
		SELECT role FROM board_members WHERE board_id = $1 AND user_id = $2
	`, boardID, userID).Scan(&role)
	if err != nil {
		return "", mapNotFound(err, store.ErrMemberNotFound)
	}
	return domain.Role(role), nil
}

// AddMember implements store.BoardStore.AddMember
func (s *PostgresBoardStore) AddMember(ctx context.Context, member *domain.BoardMember) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !member.Role.Valid() {
		return domain.NewValidationError("role", "must be OWNER, ADMIN or MEMBER", domain.ErrInvalidRole)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO board_members (board_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
	`, member.BoardID, member.UserID, string(member.Role), member.JoinedAt)
	if err != nil {
		log.Warn("failed to add board member",
			slog.String("board_id", member.BoardID.String()),
			slog.String("user_id", member.UserID.String()),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}

	log.Info("board member added",
		slog.String("board_id", member.BoardID.String()),
		slog.String("user_id", member.UserID.String()),
		slog.String("role", string(member.Role)))
	return nil
}

// RemoveMember implements store.BoardStore.RemoveMember
func (s *PostgresBoardStore) RemoveMember(ctx context.Context, boardID, userID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM board_members WHERE board_id = $1 AND user_id = $2
	`, boardID, userID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrMemberNotFound)
}

// Touch implements store.BoardStore.Touch
func (s *PostgresBoardStore) Touch(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE boards SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrBoardNotFound)
}
