// FILE: ./internal/humanoid/mocks_test.go
package humanoid

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errMockSend = errors.New("mock send failure")

// virtualClock records requested waits without sleeping.
type virtualClock struct {
	mu        sync.Mutex
	durations []time.Duration
	// MockSleep replaces the default behavior when set.
	MockSleep func(ctx context.Context, d time.Duration) error
}

func (c *virtualClock) Sleep(ctx context.Context, d time.Duration) error {
	if c.MockSleep != nil {
		return c.MockSleep(ctx, d)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.durations = append(c.durations, d)
	return ctx.Err()
}

func (c *virtualClock) waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.durations...)
}

// fixedSource replays a fixed sequence of standard normal draws, cycling.
type fixedSource struct {
	values []float64
	calls  int
}

func (s *fixedSource) NormFloat64() float64 {
	v := s.values[s.calls%len(s.values)]
	s.calls++
	return v
}

// mockSession records every character handed to Send.
type mockSession struct {
	mu     sync.Mutex
	sent   []rune
	closed int
	// failAt lists zero-based call indexes that return errMockSend.
	failAt map[int]bool
	// clock, when set, lets tests assert the wait happened before the send.
	clock *virtualClock
	// waitsAtSend captures len(clock.waits()) at each Send.
	waitsAtSend []int
	closeErr    error
}

func newMockSession(failAt ...int) *mockSession {
	s := &mockSession{failAt: make(map[int]bool)}
	for _, i := range failAt {
		s.failAt[i] = true
	}
	return s
}

func (s *mockSession) Send(ctx context.Context, char rune) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := len(s.sent)
	s.sent = append(s.sent, char)
	if s.clock != nil {
		s.waitsAtSend = append(s.waitsAtSend, len(s.clock.waits()))
	}
	if s.failAt[idx] {
		return errMockSend
	}
	return nil
}

func (s *mockSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return s.closeErr
}

func (s *mockSession) sentString() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.sent)
}

// mockBackend hands out a single mockSession.
type mockBackend struct {
	session *mockSession
	openErr error
	opens   int
}

func (b *mockBackend) Name() string { return "mock" }

func (b *mockBackend) Open(ctx context.Context) (Session, error) {
	b.opens++
	if b.openErr != nil {
		return nil, b.openErr
	}
	return b.session, nil
}

// newTestHumanoid builds a Humanoid with a virtual clock and a deterministic source.
func newTestHumanoid(t interface{ Fatalf(string, ...any) }, cfg Config) (*Humanoid, *virtualClock) {
	clock := &virtualClock{}
	if cfg.Rng == nil {
		cfg.Rng = NewSource(42)
	}
	h, err := New(cfg, nil, clock)
	if err != nil {
		t.Fatalf("failed to build test humanoid: %v", err)
	}
	return h, clock
}
