package service

import (
	"errors"
	"fmt"

	"github.com/jungle/notifications-service/internal/store"
)

// Common service errors. Callers check them with errors.Is.
var (
	// ErrPersistence marks a failure to read or write the registry or the
	// notification store while dispatching an event. The whole event failed.
	ErrPersistence = errors.New("persistence failure")

	// ErrNotificationNotFound indicates that the notification does not exist
	// or belongs to another recipient. The API maps it to 404.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidPagination is returned for a page or size outside the allowed range.
	ErrInvalidPagination = errors.New("invalid pagination")
)

// DispatchError wraps a failure to record one event.
type DispatchError struct {
	EventType string
	TaskID    string
	Operation string
	Err       error
}

// Error implements the error interface for DispatchError.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s for task %s failed during %s: %v", e.EventType, e.TaskID, e.Operation, e.Err)
}

// Unwrap exposes both ErrPersistence and the underlying store error.
func (e *DispatchError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// NotificationServiceError wraps errors from the read side with context.
type NotificationServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for NotificationServiceError.
func (e *NotificationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notification service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("notification service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *NotificationServiceError) Unwrap() error {
	return e.Err
}

// NewNotificationServiceError wraps err, returning known sentinels directly.
func NewNotificationServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotificationNotFound) || errors.Is(err, store.ErrNotificationNotFound) {
		return ErrNotificationNotFound
	}
	return &NotificationServiceError{Operation: operation, Message: message, Err: err}
}
