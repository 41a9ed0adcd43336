// Package record implements an injection backend that writes characters to an
// io.Writer instead of the host keyboard. It backs dry runs and tests.
package record

import (
	"context"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"

	"github.com/xkilldash9x/keysim/internal/humanoid"
)

// Compile-time interface satisfaction checks.
var (
	_ humanoid.Backend = (*Backend)(nil)
	_ humanoid.Session = (*session)(nil)
)

// FailFunc decides whether the send at zero-based call index should fail.
type FailFunc func(index int, char rune) error

// Option configures a Backend.
type Option func(*Backend)

// WithFailures scripts per-character send failures.
func WithFailures(fn FailFunc) Option {
	return func(b *Backend) { b.fail = fn }
}

// WithOpenError makes Open fail with err.
func WithOpenError(err error) Option {
	return func(b *Backend) { b.openErr = err }
}

// FailAt returns a FailFunc that fails the given call indexes with err.
func FailAt(err error, indexes ...int) FailFunc {
	set := make(map[int]struct{}, len(indexes))
	for _, i := range indexes {
		set[i] = struct{}{}
	}
	return func(index int, _ rune) error {
		if _, ok := set[index]; ok {
			return err
		}
		return nil
	}
}

// Backend records every attempted character and writes delivered ones to out.
type Backend struct {
	mu       sync.Mutex
	out      io.Writer
	fail     FailFunc
	openErr  error
	attempts []rune
	opens    int
	closes   int
}

// New creates a recording backend. A nil out discards delivered characters.
func New(out io.Writer, opts ...Option) *Backend {
	if out == nil {
		out = io.Discard
	}
	b := &Backend{out: out}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements humanoid.Backend.
func (b *Backend) Name() string { return "record" }

// Open implements humanoid.Backend.
func (b *Backend) Open(ctx context.Context) (humanoid.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opens++
	if b.openErr != nil {
		return nil, b.openErr
	}
	return &session{backend: b}, nil
}

// Attempts returns every character handed to Send, in order.
func (b *Backend) Attempts() []rune {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]rune(nil), b.attempts...)
}

// Opens returns how many sessions were requested.
func (b *Backend) Opens() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opens
}

// Closes returns how many sessions were released.
func (b *Backend) Closes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closes
}

type session struct {
	backend *Backend
	closed  bool
}

func (s *session) Send(ctx context.Context, char rune) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.closed {
		return fmt.Errorf("record: session closed")
	}
	index := len(b.attempts)
	b.attempts = append(b.attempts, char)

	if b.fail != nil {
		if err := b.fail(index, char); err != nil {
			return err
		}
	}

	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], char)
	if _, err := b.out.Write(buf[:n]); err != nil {
		return fmt.Errorf("record: write failed: %w", err)
	}
	return nil
}

func (s *session) Close() error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	b.closes++
	return nil
}
