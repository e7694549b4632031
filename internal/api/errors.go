package api

import (
	"errors"
	"fmt"
)

// RequestFailed is the single failure kind of the client: a transport
// error (Status 0), a non-2xx response, or an undecodable body.
type RequestFailed struct {
	Op        string
	Method    string
	Path      string
	Status    int
	RequestID string
	Err       error
}

func (e *RequestFailed) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: status %d: %v", e.Op, e.Method, e.Path, e.Status, e.Err)
}

func (e *RequestFailed) Unwrap() error { return e.Err }

// IsRequestFailed reports whether err is, or wraps, a RequestFailed.
func IsRequestFailed(err error) bool {
	var rf *RequestFailed
	return errors.As(err, &rf)
}
