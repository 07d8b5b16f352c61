package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jungle/notifications-service/internal/domain"
	"github.com/jungle/notifications-service/internal/platform/logger"
	"github.com/jungle/notifications-service/internal/store"
)

// Pagination limits for listing unread notifications.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// NotificationService is the read side of the notification store.
type NotificationService interface {
	// ListUnread returns one page of unread notifications, newest first.
	// page starts at 1; size must be within 1..MaxPageSize.
	ListUnread(ctx context.Context, recipientID string, page, size int) ([]*domain.Notification, error)

	// MarkRead marks one notification read and returns it.
	// Returns ErrNotificationNotFound for unknown or foreign notifications.
	MarkRead(ctx context.Context, recipientID string, id uuid.UUID) (*domain.Notification, error)

	// MarkAllRead marks every unread notification of the recipient and
	// returns how many changed.
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}

type notificationServiceImpl struct {
	notifications store.NotificationStore
	now           func() time.Time
	logger        *slog.Logger
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(notifications store.NotificationStore, logger *slog.Logger) (NotificationService, error) {
	if notifications == nil {
		return nil, &NotificationServiceError{Operation: "create_service", Message: "notifications cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &notificationServiceImpl{
		notifications: notifications,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        logger.With("component", "notification_service"),
	}, nil
}

// ListUnread implements NotificationService.ListUnread.
func (s *notificationServiceImpl) ListUnread(
	ctx context.Context,
	recipientID string,
	page, size int,
) ([]*domain.Notification, error) {
	if page < 1 || size < 1 || size > MaxPageSize {
		return nil, fmt.Errorf("%w: page %d, size %d", ErrInvalidPagination, page, size)
	}
	// The offset must fit in an int.
	if page-1 > math.MaxInt/size {
		return nil, fmt.Errorf("%w: page %d is out of range", ErrInvalidPagination, page)
	}

	list, err := s.notifications.ListUnread(ctx, recipientID, size, (page-1)*size)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list unread notifications",
			slog.String("error", err.Error()),
			slog.String("recipient_id", recipientID))
		return nil, NewNotificationServiceError("list_unread", "failed to list notifications", err)
	}
	return list, nil
}

// MarkRead implements NotificationService.MarkRead.
// A notification that is already read is returned as stored without a write.
func (s *notificationServiceImpl) MarkRead(
	ctx context.Context,
	recipientID string,
	id uuid.UUID,
) (*domain.Notification, error) {
	existing, err := s.notifications.GetByID(ctx, id, recipientID)
	if err != nil {
		return nil, s.markReadError(ctx, id, "failed to load notification", err)
	}
	if existing.IsRead() {
		return existing, nil
	}

	n, err := s.notifications.MarkRead(ctx, id, recipientID, s.now())
	if err != nil {
		return nil, s.markReadError(ctx, id, "failed to mark notification read", err)
	}
	return n, nil
}

func (s *notificationServiceImpl) markReadError(ctx context.Context, id uuid.UUID, message string, err error) error {
	if !store.IsNotFoundError(err) {
		logger.FromContextOrDefault(ctx, s.logger).Error(message,
			slog.String("error", err.Error()),
			slog.String("notification_id", id.String()))
	}
	return NewNotificationServiceError("mark_read", message, err)
}

// MarkAllRead implements NotificationService.MarkAllRead.
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	updated, err := s.notifications.MarkAllRead(ctx, recipientID, s.now())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to mark all notifications read",
			slog.String("error", err.Error()),
			slog.String("recipient_id", recipientID))
		return 0, NewNotificationServiceError("mark_all_read", "failed to mark notifications read", err)
	}
	return updated, nil
}
