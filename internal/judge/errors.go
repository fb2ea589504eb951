package judge

import (
	"errors"
	"fmt"
)

// ErrNotYetAvailable marks the poll endpoint's 404: the submission is not
// registered yet. Expected and retried by the caller.
var ErrNotYetAvailable = errors.New("submission result not yet available")

// ErrUnauthorized marks a 401/403: the session expired or never existed.
var ErrUnauthorized = errors.New("not authenticated")

// TransportError means the request never produced a response: DNS failure,
// refused connection, dropped connection mid-body.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a response with an unexpected HTTP status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("unexpected status %d", e.Code)
}
