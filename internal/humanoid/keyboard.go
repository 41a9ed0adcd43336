// -- internal/humanoid/keyboard.go --
package humanoid

import (
	"context"

	"go.uber.org/zap"
)

// Report summarizes a run. Attempted always equals Delivered + Tolerated,
// plus one when the run stopped on a send failure.
type Report struct {
	Attempted int
	Delivered int
	Tolerated int
}

// Simulate opens a session on backend, types text through it and releases it.
func (h *Humanoid) Simulate(ctx context.Context, backend Backend, text string) (Report, error) {
	session, err := backend.Open(ctx)
	if err != nil {
		return Report{}, &BackendInitError{Backend: backend.Name(), Err: err}
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			h.logger.Warn("Failed to release injection session.", zap.String("backend", backend.Name()), zap.Error(cerr))
		}
	}()

	h.logger.Debug("Injection session opened.", zap.String("backend", backend.Name()))
	return h.Type(ctx, session, text)
}

// Type sends text one character at a time. Before each character it samples
// a delay and blocks for it. A send failure either stops the run or, when
// IgnoreErrors is set, is dropped and the next character follows.
func (h *Humanoid) Type(ctx context.Context, session Session, text string) (Report, error) {
	var report Report

	// Rune slice so positions count characters, not bytes.
	runes := []rune(text)

	for i, char := range runes {
		sample := h.timing.Sample()
		wait := sample.Duration()
		if err := h.clock.Sleep(ctx, wait); err != nil {
			return report, err
		}

		report.Attempted++
		if err := session.Send(ctx, char); err != nil {
			sendErr := &SendError{Index: i, Char: char, Err: err}
			if !h.config.IgnoreErrors {
				return report, sendErr
			}
			report.Tolerated++
			h.logger.Warn("Ignoring send failure.", zap.Int("index", i), zap.Error(err))
			continue
		}
		report.Delivered++

		if ce := h.logger.Check(zap.DebugLevel, "Key sent."); ce != nil {
			ce.Write(
				zap.Int("index", i),
				zap.Float64("rate", sample.Rate),
				zap.Duration("delay", wait),
			)
		}
	}

	h.logger.Debug("Typing finished.",
		zap.Int("attempted", report.Attempted),
		zap.Int("tolerated", report.Tolerated),
	)
	return report, nil
}
