package stream

import (
	"errors"
	"fmt"
)

// Sentinel errors checkable with errors.Is.
var (
	// ErrTruncated indicates the body ended without a done or error record.
	// Partial content was never validated as complete, so this is a failure,
	// not a success with whatever text was accumulated.
	ErrTruncated = errors.New("stream: body ended without a terminal record")

	// ErrNoBody indicates the response carried no readable body.
	ErrNoBody = errors.New("stream: response has no readable body")

	// ErrIdleTimeout indicates no record arrived within the session's idle
	// window.
	ErrIdleTimeout = errors.New("stream: idle timeout waiting for next record")
)

// ProtocolError is an error record delivered by the backend mid-stream.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return e.Message
}

// TransportError is a failure establishing or reading the HTTP stream,
// including non-2xx responses.
type TransportError struct {
	StatusCode int // 0 when the request itself failed
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("stream: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("stream: request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
