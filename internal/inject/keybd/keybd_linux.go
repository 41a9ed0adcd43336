//go:build linux

package keybd

import (
	"context"
	"fmt"

	"github.com/micmonay/keybd_event"
	"github.com/xkilldash9x/keysim/internal/humanoid"
	"go.uber.org/zap"
)

// presser is the slice of keybd_event.KeyBonding a session uses.
type presser interface {
	Clear()
	SetKeys(keys ...int)
	HasSHIFT(bool)
	Launching() error
}

// newPresser creates the uinput device. Replaced in tests.
var newPresser = func() (presser, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, err
	}
	return &kb, nil
}

// Open creates the virtual device and waits for the OS to pick it up.
// Creating the device requires write access to /dev/uinput.
func (b *Backend) Open(ctx context.Context) (humanoid.Session, error) {
	kb, err := newPresser()
	if err != nil {
		return nil, fmt.Errorf("could not create virtual keyboard: %w", err)
	}

	if b.cfg.SettleDelay > 0 {
		b.logger.Debug("Waiting for virtual keyboard to settle.", zap.Duration("delay", b.cfg.SettleDelay))
		if err := b.clock.Sleep(ctx, b.cfg.SettleDelay); err != nil {
			return nil, err
		}
	}
	return &session{kb: kb, logger: b.logger}, nil
}

type session struct {
	kb     presser
	logger *zap.Logger
	closed bool
}

// Send presses and releases the key for char, holding shift when needed.
func (s *session) Send(ctx context.Context, char rune) error {
	if s.closed {
		return fmt.Errorf("keybd: session closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	code, shift, ok := keyFor(char)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedChar, char)
	}

	s.kb.Clear()
	s.kb.SetKeys(code)
	s.kb.HasSHIFT(shift)
	if err := s.kb.Launching(); err != nil {
		return fmt.Errorf("key event failed: %w", err)
	}
	return nil
}

// Close marks the session done. The uinput device lives as long as the process.
func (s *session) Close() error {
	s.closed = true
	return nil
}
