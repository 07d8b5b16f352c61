package domain

import (
	"time"
)

// TaskParticipants records the users with a stake in a task: the creator, once
// known, and the current assignee set. It is the routing table for comment
// notifications.
type TaskParticipants struct {
	TaskID string `json:"taskId"`

	// CreatorID is empty until a task.created event names the actor.
	CreatorID string `json:"creatorId,omitempty"`

	// AssigneeIDs is replaced wholesale on every update.
	AssigneeIDs []string `json:"assigneeIds"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTaskParticipants builds a participants row with a normalized assignee set.
func NewTaskParticipants(taskID, creatorID string, assigneeIDs []string) (*TaskParticipants, error) {
	p := &TaskParticipants{
		TaskID:      taskID,
		CreatorID:   creatorID,
		AssigneeIDs: NormalizeIDs(assigneeIDs),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks if the TaskParticipants has valid data.
func (p *TaskParticipants) Validate() error {
	if p.TaskID == "" {
		return ErrEmptyTaskID
	}
	return nil
}

// HasCreator reports whether the creator of the task is known.
func (p *TaskParticipants) HasCreator() bool {
	return p.CreatorID != ""
}

// Members returns assignees followed by the creator, without duplicates.
func (p *TaskParticipants) Members() *RecipientSet {
	set := NewRecipientSet(p.AssigneeIDs...)
	if p.HasCreator() {
		set.Add(p.CreatorID)
	}
	return set
}
