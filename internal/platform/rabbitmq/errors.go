package rabbitmq

import (
	"errors"
	"fmt"
)

// ErrConnectionClosed is returned when the broker closes the delivery stream.
var ErrConnectionClosed = errors.New("broker connection closed")

// TransportError reports a broker connect or channel failure. It ends the
// current session; restarting is the caller's decision.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("broker transport error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

func newTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}
