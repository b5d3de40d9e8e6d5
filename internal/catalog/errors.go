package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the platform knows nothing about the
	// requested product.
	ErrNotFound = errors.New("product not found")

	// ErrUnauthorized signals a rejected session token. The panel only
	// reports it; redirect/logout belongs to the session layer.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSubmitInFlight is returned when a create/update is attempted while
	// a previous submission is still outstanding.
	ErrSubmitInFlight = errors.New("submission already in flight")
)

// TransportError wraps network and upstream availability failures. Retry is
// left to the caller; nothing in this layer retries.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerValidationError carries field-level errors reported by the platform
// on a 4xx response, surfaced inline next to the offending inputs.
type ServerValidationError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *ServerValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("catalog request rejected with status %d", e.Status)
}
