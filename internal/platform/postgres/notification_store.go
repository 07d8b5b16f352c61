package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jungle/notifications-service/internal/domain"
	"github.com/jungle/notifications-service/internal/platform/logger"
	"github.com/jungle/notifications-service/internal/store"
)

const notificationEntity = "notification"

const notificationColumns = `id, recipient_id, type, task_id, COALESCE(comment_id, ''), title, body, created_at, read_at`

// PostgresNotificationStore implements store.NotificationStore.
type PostgresNotificationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNotificationStore creates a notification store backed by db,
// which may be a *sql.DB or a *sql.Tx. A nil logger selects slog.Default.
func NewPostgresNotificationStore(db store.DBTX, logger *slog.Logger) *PostgresNotificationStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNotificationStore{
		db:     db,
		logger: logger.With(slog.String("component", "notification_store")),
	}
}

var _ store.NotificationStore = (*PostgresNotificationStore)(nil)

// WithTx implements store.NotificationStore.WithTx.
func (s *PostgresNotificationStore) WithTx(tx *sql.Tx) store.NotificationStore {
	return &PostgresNotificationStore{
		db:     tx,
		logger: s.logger,
	}
}

// CreateMany implements store.NotificationStore.CreateMany.
// Every notification is validated before any row is written.
func (s *PostgresNotificationStore) CreateMany(ctx context.Context, notifications []*domain.Notification) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(notifications) == 0 {
		return nil
	}

	for _, n := range notifications {
		if err := n.Validate(); err != nil {
			log.Warn("notification validation failed during create",
				slog.String("error", err.Error()),
				slog.String("notification_id", n.ID.String()))
			return store.NewStoreError(notificationEntity, "create", "invalid notification", errors.Join(store.ErrInvalidEntity, err))
		}
	}

	query := `
		INSERT INTO notifications (id, recipient_id, type, task_id, comment_id, title, body, created_at, read_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9)
	`
	for _, n := range notifications {
		_, err := s.db.ExecContext(ctx, query,
			n.ID,
			n.RecipientID,
			n.Type,
			n.TaskID,
			n.CommentID,
			n.Title,
			n.Body,
			n.CreatedAt,
			nullTime(n.ReadAt),
		)
		if err != nil {
			log.Error("failed to insert notification",
				slog.String("error", err.Error()),
				slog.String("notification_id", n.ID.String()),
				slog.String("recipient_id", n.RecipientID),
				slog.String("task_id", n.TaskID))
			return store.NewStoreError(notificationEntity, "create", "insert failed", MapError(err))
		}
	}

	log.Debug("notifications created",
		slog.Int("count", len(notifications)),
		slog.String("task_id", notifications[0].TaskID))
	return nil
}

// ListUnread implements store.NotificationStore.ListUnread.
func (s *PostgresNotificationStore) ListUnread(
	ctx context.Context,
	recipientID string,
	limit, offset int,
) ([]*domain.Notification, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE recipient_id = $1 AND read_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, recipientID, limit, offset)
	if err != nil {
		log.Error("failed to list unread notifications",
			slog.String("error", err.Error()),
			slog.String("recipient_id", recipientID))
		return nil, store.NewStoreError(notificationEntity, "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	notifications := make([]*domain.Notification, 0, limit)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, store.NewStoreError(notificationEntity, "list", "scan failed", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError(notificationEntity, "list", "iteration failed", MapError(err))
	}

	return notifications, nil
}

// GetByID implements store.NotificationStore.GetByID.
func (s *PostgresNotificationStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
	recipientID string,
) (*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE id = $1 AND recipient_id = $2
	`
	n, err := scanNotification(s.db.QueryRowContext(ctx, query, id, recipientID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotificationNotFound
		}
		return nil, store.NewStoreError(notificationEntity, "get", "query failed", MapError(err))
	}
	return n, nil
}

// MarkRead implements store.NotificationStore.MarkRead.
func (s *PostgresNotificationStore) MarkRead(
	ctx context.Context,
	id uuid.UUID,
	recipientID string,
	at time.Time,
) (*domain.Notification, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE notifications
		SET read_at = COALESCE(read_at, $3)
		WHERE id = $1 AND recipient_id = $2
		RETURNING ` + notificationColumns

	n, err := scanNotification(s.db.QueryRowContext(ctx, query, id, recipientID, at.UTC()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("notification not found for mark read",
				slog.String("notification_id", id.String()),
				slog.String("recipient_id", recipientID))
			return nil, store.ErrNotificationNotFound
		}
		log.Error("failed to mark notification read",
			slog.String("error", err.Error()),
			slog.String("notification_id", id.String()))
		return nil, store.NewStoreError(notificationEntity, "mark_read", "update failed", MapError(err))
	}
	return n, nil
}

// MarkAllRead implements store.NotificationStore.MarkAllRead.
func (s *PostgresNotificationStore) MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE notifications
		SET read_at = $2
		WHERE recipient_id = $1 AND read_at IS NULL
	`
	result, err := s.db.ExecContext(ctx, query, recipientID, at.UTC())
	if err != nil {
		log.Error("failed to mark all notifications read",
			slog.String("error", err.Error()),
			slog.String("recipient_id", recipientID))
		return 0, store.NewStoreError(notificationEntity, "mark_all_read", "update failed", MapError(err))
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError(notificationEntity, "mark_all_read", "rows affected unavailable", err)
	}

	log.Debug("notifications marked read",
		slog.String("recipient_id", recipientID),
		slog.Int64("updated", updated))
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	var readAt sql.NullTime
	if err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.Type,
		&n.TaskID,
		&n.CommentID,
		&n.Title,
		&n.Body,
		&n.CreatedAt,
		&readAt,
	); err != nil {
		return nil, err
	}
	if readAt.Valid {
		t := readAt.Time.UTC()
		n.ReadAt = &t
	}
	n.CreatedAt = n.CreatedAt.UTC()
	return &n, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
