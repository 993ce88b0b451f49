package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized means the server rejected the session token (or none was
// sent). The caller must tear the session down and force a re-login; it is
// never retried silently.
var ErrUnauthorized = errors.New("api: session token rejected")

// ValidationError is a server-side rejection of a write: insufficient tokens,
// cooldown not elapsed, bad secret, and so on. The local state is untouched
// and Message is safe to show to the user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("api: rejected: %s", e.Message)
}

// TransientError wraps a network or decode failure on a read. Polling callers
// skip the tick and keep the previous snapshot; the next scheduled tick is
// the only retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("api: transient: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a read failure worth nothing more than
// waiting for the next poll tick.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
