package usb

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDirection is returned when Send is called on an OUT endpoint.
	ErrInvalidDirection = errors.New("send is only valid on IN endpoints")

	// ErrNotAttached is returned when an endpoint has no parent through
	// which a device can be reached.
	ErrNotAttached = errors.New("endpoint is not attached to a device")

	// ErrNoHandler is returned by DispatchRequest when no registered
	// handler matches an incoming control request. The control pipe that
	// receives it is expected to stall the transfer.
	ErrNoHandler = errors.New("no handler for control request")

	// ErrDuplicateEndpoint is returned when an EndpointSet already holds
	// an endpoint with the same number and direction.
	ErrDuplicateEndpoint = errors.New("duplicate endpoint number/direction")
)

// ConfigError reports a malformed endpoint field value. Values are
// rejected at construction rather than truncated, so a bad field can
// never silently produce a corrupt descriptor.
type ConfigError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid endpoint config: %s=%d (%s)", e.Field, e.Value, e.Reason)
}
