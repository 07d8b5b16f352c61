package events

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/jungle/notifications-service/internal/domain"
)

var validate = validator.New()

// Parse decodes a raw queue message into a TaskEvent.
//
// The decoded "type" field selects the variant; routingKey is only carried
// into errors for diagnosis. Assignee lists are normalized (trimmed,
// blanks dropped, duplicates collapsed). Parse has no side effects.
func Parse(routingKey string, raw []byte) (TaskEvent, error) {
	var envelope struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, invalid(routingKey, "", "malformed JSON", err)
	}

	var event TaskEvent
	switch envelope.Type {
	case TypeTaskCreated:
		var e TaskCreated
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, invalid(routingKey, envelope.Type, "malformed payload", err)
		}
		e.Payload.AssigneeIDs = domain.NormalizeIDs(e.Payload.AssigneeIDs)
		event = &e
	case TypeTaskUpdated:
		var e TaskUpdated
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, invalid(routingKey, envelope.Type, "malformed payload", err)
		}
		e.Payload.AssigneeIDs = domain.NormalizeIDs(e.Payload.AssigneeIDs)
		event = &e
	case TypeTaskCommentCreated:
		var e TaskCommentCreated
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, invalid(routingKey, envelope.Type, "malformed payload", err)
		}
		event = &e
	case "":
		return nil, invalid(routingKey, "", "missing type", nil)
	default:
		return nil, invalid(routingKey, envelope.Type, "unknown type", nil)
	}

	if err := validate.Struct(event); err != nil {
		return nil, invalid(routingKey, envelope.Type, "missing required fields", err)
	}

	return event, nil
}
