package events

import (
	"time"
)

// Type is the discriminant carried in the "type" field of every event.
type Type string

// Known event types. The broker routing key equals the type by convention.
const (
	TypeTaskCreated        Type = "task.created"
	TypeTaskUpdated        Type = "task.updated"
	TypeTaskCommentCreated Type = "task.comment.created"
)

// Valid reports whether t is one of the known event types.
func (t Type) Valid() bool {
	switch t {
	case TypeTaskCreated, TypeTaskUpdated, TypeTaskCommentCreated:
		return true
	}
	return false
}

// RealtimeName returns the event name used on realtime client frames.
func (t Type) RealtimeName() string {
	switch t {
	case TypeTaskCreated:
		return "task:created"
	case TypeTaskUpdated:
		return "task:updated"
	case TypeTaskCommentCreated:
		return "comment:new"
	}
	return ""
}

// Metadata holds the fields shared by every event variant.
type Metadata struct {
	Type       Type      `json:"type" validate:"required"`
	TaskID     string    `json:"taskId" validate:"required"`
	OccurredAt time.Time `json:"occurredAt" validate:"required"`

	// ActorID is the user who caused the event, when the publisher knows it.
	ActorID string `json:"actorId,omitempty"`
}

// Meta returns the shared event fields.
func (m Metadata) Meta() Metadata {
	return m
}

// MatchesRoutingKey reports whether the decoded type agrees with the routing
// key the message was delivered under.
func (m Metadata) MatchesRoutingKey(routingKey string) bool {
	return string(m.Type) == routingKey
}

// TaskEvent is implemented by the three event variants only.
type TaskEvent interface {
	Meta() Metadata
	isTaskEvent()
}

// TaskCreatedPayload is the variant data of a task.created event.
type TaskCreatedPayload struct {
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status" validate:"required"`
	Priority    string     `json:"priority" validate:"required"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssigneeIDs []string   `json:"assigneeIds"`
}

// TaskCreated is published once when a task is created.
type TaskCreated struct {
	Metadata
	Payload TaskCreatedPayload `json:"payload"`
}

func (*TaskCreated) isTaskEvent() {}

// TaskUpdatedPayload is the variant data of a task.updated event.
type TaskUpdatedPayload struct {
	// ChangedFields maps field names to their new values. It must be present
	// but may be empty.
	ChangedFields map[string]any `json:"changedFields" validate:"required"`

	// AssigneeIDs is the full current assignee set, not a delta.
	AssigneeIDs []string `json:"assigneeIds"`
}

// TaskUpdated is published whenever task fields or assignees change.
type TaskUpdated struct {
	Metadata
	Payload TaskUpdatedPayload `json:"payload"`
}

func (*TaskUpdated) isTaskEvent() {}

// TaskCommentCreatedPayload is the variant data of a task.comment.created event.
type TaskCommentCreatedPayload struct {
	CommentID string `json:"commentId" validate:"required"`
	AuthorID  string `json:"authorId" validate:"required"`
	Content   string `json:"content" validate:"required"`
}

// TaskCommentCreated is published when a comment is added to a task.
type TaskCommentCreated struct {
	Metadata
	Payload TaskCommentCreatedPayload `json:"payload"`
}

func (*TaskCommentCreated) isTaskEvent() {}
