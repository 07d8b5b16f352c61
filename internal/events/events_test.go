package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func occurred() time.Time {
	return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	desc := "write the docs"
	due := occurred().Add(48 * time.Hour)

	tests := []struct {
		name  string
		event TaskEvent
	}{
		{
			name: "created",
			event: &TaskCreated{
				Metadata: Metadata{Type: TypeTaskCreated, TaskID: "t1", OccurredAt: occurred(), ActorID: "u1"},
				Payload: TaskCreatedPayload{
					Title:       "Docs",
					Description: &desc,
					Status:      "TODO",
					Priority:    "HIGH",
					DueDate:     &due,
					AssigneeIDs: []string{"u1", "u2"},
				},
			},
		},
		{
			name: "updated with no changed fields",
			event: &TaskUpdated{
				Metadata: Metadata{Type: TypeTaskUpdated, TaskID: "t1", OccurredAt: occurred()},
				Payload:  TaskUpdatedPayload{ChangedFields: map[string]any{}, AssigneeIDs: []string{}},
			},
		},
		{
			name: "updated",
			event: &TaskUpdated{
				Metadata: Metadata{Type: TypeTaskUpdated, TaskID: "t1", OccurredAt: occurred(), ActorID: "u2"},
				Payload: TaskUpdatedPayload{
					ChangedFields: map[string]any{"status": "DONE", "title": "Docs v2"},
					AssigneeIDs:   []string{"u2", "u3"},
				},
			},
		},
		{
			name: "comment",
			event: &TaskCommentCreated{
				Metadata: Metadata{Type: TypeTaskCommentCreated, TaskID: "t1", OccurredAt: occurred(), ActorID: "u3"},
				Payload:  TaskCommentCreatedPayload{CommentID: "c1", AuthorID: "u3", Content: "looks good"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.event)
			require.NoError(t, err)

			got, err := Parse(string(tt.event.Meta().Type), raw)
			require.NoError(t, err)
			assert.Equal(t, tt.event, got)
		})
	}
}

func TestParseNormalizesAssignees(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"type":"task.created","taskId":"t1","occurredAt":"2025-06-01T09:30:00Z",
		"payload":{"title":"x","status":"TODO","priority":"LOW","assigneeIds":[" u1","u2","u1",""]}}`)

	event, err := Parse("task.created", raw)
	require.NoError(t, err)

	created, ok := event.(*TaskCreated)
	require.True(t, ok)
	assert.Equal(t, []string{"u1", "u2"}, created.Payload.AssigneeIDs)
	assert.Empty(t, created.ActorID)
}

func TestParseMissingAssigneesYieldsEmptySet(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"type":"task.updated","taskId":"t1","occurredAt":"2025-06-01T09:30:00Z",
		"payload":{"changedFields":{"priority":"HIGH"}}}`)

	event, err := Parse("task.updated", raw)
	require.NoError(t, err)

	updated := event.(*TaskUpdated)
	assert.NotNil(t, updated.Payload.AssigneeIDs)
	assert.Empty(t, updated.Payload.AssigneeIDs)
}

func TestParseRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{name: "truncated json", raw: `{"type":"task.created","taskId":`, reason: "malformed JSON"},
		{name: "not an object", raw: `[1,2,3]`, reason: "malformed JSON"},
		{name: "missing type", raw: `{"taskId":"t1","occurredAt":"2025-06-01T09:30:00Z","payload":{}}`, reason: "missing type"},
		{name: "unknown type", raw: `{"type":"task.deleted","taskId":"t1","occurredAt":"2025-06-01T09:30:00Z","payload":{}}`, reason: "unknown type"},
		{
			name:   "missing task id",
			raw:    `{"type":"task.comment.created","occurredAt":"2025-06-01T09:30:00Z","payload":{"commentId":"c1","authorId":"u1","content":"hi"}}`,
			reason: "missing required fields",
		},
		{
			name:   "missing occurredAt",
			raw:    `{"type":"task.comment.created","taskId":"t1","payload":{"commentId":"c1","authorId":"u1","content":"hi"}}`,
			reason: "missing required fields",
		},
		{
			name:   "missing title",
			raw:    `{"type":"task.created","taskId":"t1","occurredAt":"2025-06-01T09:30:00Z","payload":{"status":"TODO","priority":"LOW"}}`,
			reason: "missing required fields",
		},
		{
			name:   "missing changedFields",
			raw:    `{"type":"task.updated","taskId":"t1","occurredAt":"2025-06-01T09:30:00Z","payload":{"assigneeIds":["u1"]}}`,
			reason: "missing required fields",
		},
		{
			name:   "missing comment content",
			raw:    `{"type":"task.comment.created","taskId":"t1","occurredAt":"2025-06-01T09:30:00Z","payload":{"commentId":"c1","authorId":"u1"}}`,
			reason: "missing required fields",
		},
		{
			name:   "wrong-shaped assignees",
			raw:    `{"type":"task.created","taskId":"t1","occurredAt":"2025-06-01T09:30:00Z","payload":{"title":"x","status":"TODO","priority":"LOW","assigneeIds":"u1"}}`,
			reason: "malformed payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := Parse("task.created", []byte(tt.raw))
			require.Error(t, err)
			assert.Nil(t, event)
			assert.True(t, errors.Is(err, ErrInvalidEvent))

			var invalidErr *InvalidEventError
			require.True(t, errors.As(err, &invalidErr))
			assert.Equal(t, tt.reason, invalidErr.Reason)
			assert.Equal(t, "task.created", invalidErr.RoutingKey)
		})
	}
}

func TestTypeHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, TypeTaskCreated.Valid())
	assert.False(t, Type("task.deleted").Valid())

	assert.Equal(t, "task:created", TypeTaskCreated.RealtimeName())
	assert.Equal(t, "task:updated", TypeTaskUpdated.RealtimeName())
	assert.Equal(t, "comment:new", TypeTaskCommentCreated.RealtimeName())

	meta := Metadata{Type: TypeTaskUpdated}
	assert.True(t, meta.MatchesRoutingKey("task.updated"))
	assert.False(t, meta.MatchesRoutingKey("task.created"))
}
