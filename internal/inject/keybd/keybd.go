// Package keybd injects characters as OS-level key events through a virtual
// keyboard device (uinput on Linux).
package keybd

import (
	"errors"

	"github.com/xkilldash9x/keysim/internal/config"
	"github.com/xkilldash9x/keysim/internal/humanoid"
	"go.uber.org/zap"
)

// ErrUnsupportedChar is returned by Send for characters that have no key on
// the virtual keyboard layout.
var ErrUnsupportedChar = errors.New("character has no key mapping")

// ErrUnsupportedPlatform is returned by Open where no virtual keyboard exists.
var ErrUnsupportedPlatform = errors.New("os keyboard injection is not supported on this platform")

var _ humanoid.Backend = (*Backend)(nil)

// Backend opens virtual keyboard sessions.
type Backend struct {
	cfg    config.KeybdConfig
	logger *zap.Logger
	clock  humanoid.Clock
}

// New creates a keybd backend. The settle delay is waited out on Open.
func New(cfg config.KeybdConfig, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{
		cfg:    cfg,
		logger: logger.Named("keybd"),
		clock:  humanoid.RealClock(),
	}
}

// Name implements humanoid.Backend.
func (b *Backend) Name() string { return config.BackendKeybd }
