package humanoid

import (
	"context"
	"time"
)

// realClock suspends the calling goroutine on a timer.
type realClock struct{}

// RealClock returns the production Clock.
func RealClock() Clock {
	return realClock{}
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
