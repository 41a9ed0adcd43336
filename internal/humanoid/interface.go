// Filename: internal/humanoid/interface.go
package humanoid

import (
	"context"
	"time"
)

// Backend is the injection capability the typist drives. It is opened once per
// run and the returned Session is used for every character.
type Backend interface {
	// Name identifies the backend in logs and errors (e.g. "keybd", "cdp").
	Name() string

	// Open acquires whatever host resource is needed to inject input.
	// It may fail because of missing permissions or an unsupported environment.
	Open(ctx context.Context) (Session, error)
}

// Session is an open handle on a Backend. It is owned exclusively by the
// typist for the duration of a run and is never used concurrently.
type Session interface {
	// Send delivers a single character as a keystroke. There is no timeout
	// applied around this call; a backend that hangs hangs the run.
	Send(ctx context.Context, char rune) error

	// Close releases the host resource. It is called once when the run ends.
	Close() error
}

// Clock performs the blocking wait between characters.
type Clock interface {
	// Sleep suspends the caller for d. It returns early only if ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

// Source is the randomness consumed by the timing model. *rand.Rand satisfies it.
type Source interface {
	NormFloat64() float64
}
