package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a durable per-recipient record of one task event.
// It is written once by the dispatcher; only ReadAt changes afterwards.
type Notification struct {
	ID          uuid.UUID  `json:"id"`
	RecipientID string     `json:"recipientId"`
	Type        string     `json:"type"`
	TaskID      string     `json:"taskId"`
	CommentID   string     `json:"commentId,omitempty"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	CreatedAt   time.Time  `json:"createdAt"`
	ReadAt      *time.Time `json:"readAt"`
}

// NewNotification creates an unread notification with a fresh ID.
// Returns an error if validation fails.
func NewNotification(recipientID, eventType, taskID, commentID, title, body string) (*Notification, error) {
	n := &Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Type:        eventType,
		TaskID:      taskID,
		CommentID:   commentID,
		Title:       title,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrValidation)
	}
	if n.RecipientID == "" {
		return ErrEmptyRecipientID
	}
	if n.Type == "" {
		return ErrEmptyNotificationType
	}
	if n.TaskID == "" {
		return ErrEmptyTaskID
	}
	if n.Title == "" {
		return NewValidationError("title", "cannot be empty", ErrEmptyContent)
	}
	return nil
}

// IsRead reports whether the notification has been read.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// MarkRead sets ReadAt unless it is already set.
func (n *Notification) MarkRead(at time.Time) {
	if n.ReadAt != nil {
		return
	}
	t := at.UTC()
	n.ReadAt = &t
}
