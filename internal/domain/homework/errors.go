// internal/domain/homework/errors.go
package homework

import (
	"errors"
	"fmt"
)

// Kind groups errors by how the poll loop reports them.
type Kind string

const (
	KindConnection        Kind = "CONNECTION_FAILURE"
	KindRemoteUnavailable Kind = "REMOTE_UNAVAILABLE"
	KindShape             Kind = "SHAPE"
	KindMissingField      Kind = "MISSING_FIELD"
	KindUnknownStatus     Kind = "UNKNOWN_STATUS"
	KindSend              Kind = "SEND"
	KindUnexpected        Kind = "UNEXPECTED"
)

// ConnectionError means the status API could not be reached at all.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to the Practicum API failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// RemoteUnavailableError means the status API answered with a non-200 code.
type RemoteUnavailableError struct {
	StatusCode int
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf("Practicum API responded with status code %d", e.StatusCode)
}

// ShapeError means the payload does not have the expected structure.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "Practicum API returned an unexpected payload: " + e.Reason
}

// MissingFieldError means a homework entry lacks a required key.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("homework entry has no %q field", e.Field)
}

// UnknownStatusError means the API reported a status with no known verdict.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown homework status %q", e.Status)
}

// SendError means Telegram did not accept a message.
type SendError struct {
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("failed to send telegram message: %v", e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// Classify reports the kind of err. Anything outside the known taxonomy is KindUnexpected.
func Classify(err error) Kind {
	var (
		connErr    *ConnectionError
		remoteErr  *RemoteUnavailableError
		shapeErr   *ShapeError
		missingErr *MissingFieldError
		unknownErr *UnknownStatusError
		sendErr    *SendError
	)
	switch {
	case errors.As(err, &connErr):
		return KindConnection
	case errors.As(err, &remoteErr):
		return KindRemoteUnavailable
	case errors.As(err, &shapeErr):
		return KindShape
	case errors.As(err, &missingErr):
		return KindMissingField
	case errors.As(err, &unknownErr):
		return KindUnknownStatus
	case errors.As(err, &sendErr):
		return KindSend
	default:
		return KindUnexpected
	}
}
