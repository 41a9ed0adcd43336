package humanoid

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig marks malformed timing parameters. It is detected once,
// before any character is processed, and is never retried.
var ErrInvalidConfig = errors.New("invalid config")

// BackendInitError reports that the injection backend could not open a session.
type BackendInitError struct {
	Backend string
	Err     error
}

func (e *BackendInitError) Error() string {
	return fmt.Sprintf("failed to initialize %s backend: %v", e.Backend, e.Err)
}

func (e *BackendInitError) Unwrap() error { return e.Err }

// SendError reports that a single character could not be delivered.
// Index is the zero-based position of the character in the input.
type SendError struct {
	Index int
	Char  rune
	Err   error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("failed to send %q at position %d: %v", e.Char, e.Index, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// invalidConfigf wraps ErrInvalidConfig with a formatted reason.
func invalidConfigf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
