package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	t.Parallel()

	n, err := NewNotification("u2", "task.created", "t1", "", "New task: Ship", "A new task was created.")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, n.ID)
	assert.Equal(t, "u2", n.RecipientID)
	assert.Equal(t, "task.created", n.Type)
	assert.Equal(t, "t1", n.TaskID)
	assert.Empty(t, n.CommentID)
	assert.False(t, n.CreatedAt.IsZero())
	assert.Nil(t, n.ReadAt)
	assert.False(t, n.IsRead())
}

func TestNotificationValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(n *Notification)
		wantErr error
	}{
		{name: "missing recipient", mutate: func(n *Notification) { n.RecipientID = "" }, wantErr: ErrEmptyRecipientID},
		{name: "missing type", mutate: func(n *Notification) { n.Type = "" }, wantErr: ErrEmptyNotificationType},
		{name: "missing task", mutate: func(n *Notification) { n.TaskID = "" }, wantErr: ErrEmptyTaskID},
		{name: "missing title", mutate: func(n *Notification) { n.Title = "" }, wantErr: ErrEmptyContent},
		{name: "nil id", mutate: func(n *Notification) { n.ID = uuid.Nil }, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Notification{
				ID:          uuid.New(),
				RecipientID: "u1",
				Type:        "task.updated",
				TaskID:      "t1",
				Title:       "Task updated",
			}
			tt.mutate(n)

			err := n.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestNotificationMarkRead(t *testing.T) {
	t.Parallel()

	n := &Notification{}
	first := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	n.MarkRead(first)
	require.NotNil(t, n.ReadAt)
	assert.Equal(t, first, *n.ReadAt)

	n.MarkRead(first.Add(time.Hour))
	assert.Equal(t, first, *n.ReadAt, "second MarkRead must keep the original timestamp")
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("title", "cannot be empty", ErrEmptyContent)
	assert.Equal(t, "invalid title: cannot be empty", err.Error())
	assert.ErrorIs(t, err, ErrEmptyContent)

	var ve *ValidationError
	require.ErrorAs(t, error(err), &ve)
	assert.Equal(t, "title", ve.Field)
}
