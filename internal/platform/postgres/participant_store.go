package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jungle/notifications-service/internal/domain"
	"github.com/jungle/notifications-service/internal/platform/logger"
	"github.com/jungle/notifications-service/internal/store"
)

const participantsEntity = "task_participants"

// PostgresParticipantStore implements store.ParticipantStore.
type PostgresParticipantStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresParticipantStore creates a participant registry backed by db,
// which may be a *sql.DB or a *sql.Tx. A nil logger selects slog.Default.
func NewPostgresParticipantStore(db store.DBTX, logger *slog.Logger) *PostgresParticipantStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresParticipantStore{
		db:     db,
		logger: logger.With(slog.String("component", "participant_store")),
	}
}

var _ store.ParticipantStore = (*PostgresParticipantStore)(nil)

// WithTx implements store.ParticipantStore.WithTx.
func (s *PostgresParticipantStore) WithTx(tx *sql.Tx) store.ParticipantStore {
	return &PostgresParticipantStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.ParticipantStore.Get.
func (s *PostgresParticipantStore) Get(ctx context.Context, taskID string) (*domain.TaskParticipants, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT task_id, COALESCE(creator_id, ''), assignee_ids, updated_at
		FROM task_participants
		WHERE task_id = $1
	`

	var p domain.TaskParticipants
	var assignees []string
	// pgtype.Map caches scan plans and is not safe for concurrent use.
	typeMap := pgtype.NewMap()
	err := s.db.QueryRowContext(ctx, query, taskID).Scan(
		&p.TaskID,
		&p.CreatorID,
		typeMap.SQLScanner(&assignees),
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no participants recorded for task", slog.String("task_id", taskID))
			return nil, nil
		}
		log.Error("failed to load task participants",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID))
		return nil, store.NewStoreError(participantsEntity, "get", "query failed", MapError(err))
	}

	p.AssigneeIDs = domain.NormalizeIDs(assignees)
	return &p, nil
}

// Upsert implements store.ParticipantStore.Upsert.
func (s *PostgresParticipantStore) Upsert(ctx context.Context, p *domain.TaskParticipants) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		return store.NewStoreError(participantsEntity, "upsert", "invalid participants", errors.Join(store.ErrInvalidEntity, err))
	}

	assignees := domain.NormalizeIDs(p.AssigneeIDs)
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO task_participants (task_id, creator_id, assignee_ids, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $4)
		ON CONFLICT (task_id) DO UPDATE SET
			creator_id = COALESCE(task_participants.creator_id, EXCLUDED.creator_id),
			assignee_ids = EXCLUDED.assignee_ids,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, p.TaskID, p.CreatorID, assignees, updatedAt)
	if err != nil {
		log.Error("failed to upsert task participants",
			slog.String("error", err.Error()),
			slog.String("task_id", p.TaskID))
		return store.NewStoreError(participantsEntity, "upsert", "statement failed", MapError(err))
	}

	log.Debug("task participants upserted",
		slog.String("task_id", p.TaskID),
		slog.Int("assignee_count", len(assignees)))
	return nil
}
