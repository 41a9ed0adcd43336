//go:build !linux

package keybd

import (
	"context"
	"runtime"

	"github.com/xkilldash9x/keysim/internal/humanoid"
	"go.uber.org/zap"
)

// Open implements humanoid.Backend.
func (b *Backend) Open(ctx context.Context) (humanoid.Session, error) {
	b.logger.Debug("Virtual keyboard unavailable.", zap.String("goos", runtime.GOOS))
	return nil, ErrUnsupportedPlatform
}
