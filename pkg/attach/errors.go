package attach

import (
	"errors"
	"fmt"
)

// ErrWouldBlock signals that a non-blocking syscall made no progress and
// should be retried once the descriptor is ready again.
var ErrWouldBlock = errors.New("attach: would block")

// ConnectErrorKind enumerates the Socket Connector's error taxonomy.
type ConnectErrorKind string

const (
	ErrKindPathTooLong  ConnectErrorKind = "path-too-long"
	ErrKindNoSuchPath   ConnectErrorKind = "no-such-path"
	ErrKindNotASocket   ConnectErrorKind = "not-a-socket"
	ErrKindConnRefused  ConnectErrorKind = "connection-refused"
	ErrKindTransient    ConnectErrorKind = "transient-syscall-failure"
)

// ConnectError wraps a connect failure with a taxonomy kind, so callers can
// both switch on Kind and recover the underlying errno via
// errors.Unwrap/errors.As.
type ConnectError struct {
	Kind ConnectErrorKind
	Path string
	Err  error
}

func (e *ConnectError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("attach: connect %s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("attach: connect %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

func newConnectError(kind ConnectErrorKind, path string, err error) *ConnectError {
	return &ConnectError{Kind: kind, Path: path, Err: err}
}
