package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jungle/notifications-service/internal/domain"
)

// NotificationStore persists per-recipient notification records.
// Rows are append-only apart from their read state.
type NotificationStore interface {
	// CreateMany inserts all notifications. It must run inside a transaction
	// (see WithTx and RunInTransaction) for the batch to be atomic.
	CreateMany(ctx context.Context, notifications []*domain.Notification) error

	// ListUnread returns unread notifications for recipientID, newest first.
	ListUnread(ctx context.Context, recipientID string, limit, offset int) ([]*domain.Notification, error)

	// GetByID returns the notification owned by recipientID.
	// Returns ErrNotificationNotFound if it does not exist or belongs to
	// another recipient.
	GetByID(ctx context.Context, id uuid.UUID, recipientID string) (*domain.Notification, error)

	// MarkRead sets read_at on one notification owned by recipientID and
	// returns the stored row. A row that is already read keeps its read_at.
	// Returns ErrNotificationNotFound if no such notification exists.
	MarkRead(ctx context.Context, id uuid.UUID, recipientID string, at time.Time) (*domain.Notification, error)

	// MarkAllRead marks every unread notification of recipientID as read and
	// returns how many rows changed.
	MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error)

	// WithTx returns a NotificationStore bound to tx.
	WithTx(tx *sql.Tx) NotificationStore
}
