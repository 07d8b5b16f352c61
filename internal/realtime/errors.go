package realtime

import "fmt"

// DeliveryError reports a failed send on one live connection.
type DeliveryError struct {
	UserID       string
	ConnectionID string
	Event        string
	Err          error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver %s to user %s on connection %s: %v",
		e.Event, e.UserID, e.ConnectionID, e.Err)
}

// Unwrap returns the underlying error.
func (e *DeliveryError) Unwrap() error {
	return e.Err
}
