package events

import (
	"errors"
	"fmt"
)

// ErrInvalidEvent is matched by every InvalidEventError via errors.Is.
var ErrInvalidEvent = errors.New("invalid event")

// InvalidEventError reports a message that could not be turned into a
// TaskEvent. Such messages are never retried.
type InvalidEventError struct {
	RoutingKey string
	Type       string
	Reason     string
	Err        error
}

// Error implements the error interface.
func (e *InvalidEventError) Error() string {
	msg := fmt.Sprintf("invalid event (routing key %q", e.RoutingKey)
	if e.Type != "" {
		msg += fmt.Sprintf(", type %q", e.Type)
	}
	msg += "): " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying decode or validation error.
func (e *InvalidEventError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidEvent) true for any InvalidEventError.
func (e *InvalidEventError) Is(target error) bool {
	return target == ErrInvalidEvent
}

func invalid(routingKey string, t Type, reason string, err error) error {
	return &InvalidEventError{RoutingKey: routingKey, Type: string(t), Reason: reason, Err: err}
}
