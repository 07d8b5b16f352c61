package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jungle/notifications-service/internal/domain"
	"github.com/jungle/notifications-service/internal/events"
	"github.com/jungle/notifications-service/internal/platform/logger"
	"github.com/jungle/notifications-service/internal/store"
)

// Dispatcher records task events as per-recipient notifications.
//
// Every method returns the recipients that were notified, possibly none.
// Callers use the list to decide whether to push realtime frames. A non-nil
// error means nothing was committed for the event.
type Dispatcher interface {
	// Dispatch routes an event to the handler for its variant.
	Dispatch(ctx context.Context, event events.TaskEvent) ([]string, error)

	// HandleTaskCreated records the creator and assignees and notifies the
	// assignees other than the actor.
	HandleTaskCreated(ctx context.Context, event *events.TaskCreated) ([]string, error)

	// HandleTaskUpdated replaces the assignee set and notifies the assignees
	// and the creator other than the actor.
	HandleTaskUpdated(ctx context.Context, event *events.TaskUpdated) ([]string, error)

	// HandleTaskCommentCreated notifies the task participants other than the
	// comment author and the actor. Unknown tasks notify nobody.
	HandleTaskCommentCreated(ctx context.Context, event *events.TaskCommentCreated) ([]string, error)
}

type dispatcherImpl struct {
	participants  store.ParticipantStore
	notifications store.NotificationStore
	runInTx       store.TxRunner
	logger        *slog.Logger
}

// NewDispatcher creates a Dispatcher. runInTx groups the registry upsert and
// the notification inserts of one event into a transaction; use
// store.NewTxRunner in production.
func NewDispatcher(
	participants store.ParticipantStore,
	notifications store.NotificationStore,
	runInTx store.TxRunner,
	logger *slog.Logger,
) (Dispatcher, error) {
	if participants == nil {
		return nil, domain.NewValidationError("participants", "cannot be nil", domain.ErrValidation)
	}
	if notifications == nil {
		return nil, domain.NewValidationError("notifications", "cannot be nil", domain.ErrValidation)
	}
	if runInTx == nil {
		return nil, domain.NewValidationError("runInTx", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &dispatcherImpl{
		participants:  participants,
		notifications: notifications,
		runInTx:       runInTx,
		logger:        logger.With("component", "dispatcher"),
	}, nil
}

// Dispatch implements Dispatcher.Dispatch.
func (d *dispatcherImpl) Dispatch(ctx context.Context, event events.TaskEvent) ([]string, error) {
	switch e := event.(type) {
	case *events.TaskCreated:
		return d.HandleTaskCreated(ctx, e)
	case *events.TaskUpdated:
		return d.HandleTaskUpdated(ctx, e)
	case *events.TaskCommentCreated:
		return d.HandleTaskCommentCreated(ctx, e)
	default:
		return nil, fmt.Errorf("%w: unsupported event %T", events.ErrInvalidEvent, event)
	}
}

// HandleTaskCreated implements Dispatcher.HandleTaskCreated.
func (d *dispatcherImpl) HandleTaskCreated(ctx context.Context, event *events.TaskCreated) ([]string, error) {
	log := d.eventLogger(ctx, event.Metadata)

	participants, err := domain.NewTaskParticipants(event.TaskID, event.ActorID, event.Payload.AssigneeIDs)
	if err != nil {
		return nil, d.fail(event.Metadata, "build_participants", err)
	}

	recipients := domain.NewRecipientSet(participants.AssigneeIDs...)
	recipients.Remove(event.ActorID)

	notifications, err := d.buildNotifications(event.Metadata, recipients.Slice(), "",
		createdTitle(event.Payload.Title), taskCreatedBody)
	if err != nil {
		return nil, d.fail(event.Metadata, "build_notifications", err)
	}

	err = d.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := d.participants.WithTx(tx).Upsert(ctx, participants); err != nil {
			return d.fail(event.Metadata, "upsert_participants", err)
		}
		if err := d.notifications.WithTx(tx).CreateMany(ctx, notifications); err != nil {
			return d.fail(event.Metadata, "create_notifications", err)
		}
		return nil
	})
	if err != nil {
		return nil, d.ensureDispatchError(event.Metadata, err)
	}

	log.Info("task created event dispatched", slog.Int("recipient_count", recipients.Len()))
	return recipients.Slice(), nil
}

// HandleTaskUpdated implements Dispatcher.HandleTaskUpdated.
func (d *dispatcherImpl) HandleTaskUpdated(ctx context.Context, event *events.TaskUpdated) ([]string, error) {
	log := d.eventLogger(ctx, event.Metadata)

	var recipients *domain.RecipientSet
	err := d.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		participantStore := d.participants.WithTx(tx)

		existing, err := participantStore.Get(ctx, event.TaskID)
		if err != nil {
			return d.fail(event.Metadata, "get_participants", err)
		}

		var creatorID string
		if existing != nil {
			creatorID = existing.CreatorID
		}

		participants, err := domain.NewTaskParticipants(event.TaskID, creatorID, event.Payload.AssigneeIDs)
		if err != nil {
			return d.fail(event.Metadata, "build_participants", err)
		}
		if err := participantStore.Upsert(ctx, participants); err != nil {
			return d.fail(event.Metadata, "upsert_participants", err)
		}

		recipients = participants.Members()
		recipients.Remove(event.ActorID)

		notifications, err := d.buildNotifications(event.Metadata, recipients.Slice(), "",
			taskUpdatedTitle, updatedBody(event.Payload.ChangedFields))
		if err != nil {
			return d.fail(event.Metadata, "build_notifications", err)
		}
		if err := d.notifications.WithTx(tx).CreateMany(ctx, notifications); err != nil {
			return d.fail(event.Metadata, "create_notifications", err)
		}
		return nil
	})
	if err != nil {
		return nil, d.ensureDispatchError(event.Metadata, err)
	}

	log.Info("task updated event dispatched", slog.Int("recipient_count", recipients.Len()))
	return recipients.Slice(), nil
}

// HandleTaskCommentCreated implements Dispatcher.HandleTaskCommentCreated.
func (d *dispatcherImpl) HandleTaskCommentCreated(
	ctx context.Context,
	event *events.TaskCommentCreated,
) ([]string, error) {
	log := d.eventLogger(ctx, event.Metadata).With(slog.String("comment_id", event.Payload.CommentID))

	recipients := domain.NewRecipientSet()
	err := d.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		participants, err := d.participants.WithTx(tx).Get(ctx, event.TaskID)
		if err != nil {
			return d.fail(event.Metadata, "get_participants", err)
		}
		if participants == nil {
			log.Warn("no participants known for task, comment notifies nobody")
			return nil
		}

		recipients = participants.Members()
		recipients.Remove(event.Payload.AuthorID)
		recipients.Remove(event.ActorID)

		notifications, err := d.buildNotifications(event.Metadata, recipients.Slice(), event.Payload.CommentID,
			commentTitle, commentBody(event.Payload.Content))
		if err != nil {
			return d.fail(event.Metadata, "build_notifications", err)
		}
		if err := d.notifications.WithTx(tx).CreateMany(ctx, notifications); err != nil {
			return d.fail(event.Metadata, "create_notifications", err)
		}
		return nil
	})
	if err != nil {
		return nil, d.ensureDispatchError(event.Metadata, err)
	}

	log.Info("comment event dispatched", slog.Int("recipient_count", recipients.Len()))
	return recipients.Slice(), nil
}

func (d *dispatcherImpl) buildNotifications(
	meta events.Metadata,
	recipients []string,
	commentID, title, body string,
) ([]*domain.Notification, error) {
	notifications := make([]*domain.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		n, err := domain.NewNotification(recipient, string(meta.Type), meta.TaskID, commentID, title, body)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func (d *dispatcherImpl) eventLogger(ctx context.Context, meta events.Metadata) *slog.Logger {
	return logger.FromContextOrDefault(ctx, d.logger).With(
		slog.String("event_type", string(meta.Type)),
		slog.String("task_id", meta.TaskID),
	)
}

func (d *dispatcherImpl) fail(meta events.Metadata, operation string, err error) error {
	return &DispatchError{
		EventType: string(meta.Type),
		TaskID:    meta.TaskID,
		Operation: operation,
		Err:       err,
	}
}

// ensureDispatchError wraps errors raised by the transaction runner itself,
// such as a failed commit.
func (d *dispatcherImpl) ensureDispatchError(meta events.Metadata, err error) error {
	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		return err
	}
	return d.fail(meta, "transaction", err)
}
