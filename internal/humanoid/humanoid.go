// -- internal/humanoid/humanoid.go --
package humanoid

import (
	"go.uber.org/zap"
)

// Config describes one simulation run. It is passed by value and never
// mutated after New.
type Config struct {
	// Speed is the mean typing rate in characters/second.
	Speed float64
	// UnstableRate is the standard deviation of the rate.
	UnstableRate float64
	// IgnoreErrors tolerates per-character send failures instead of aborting.
	IgnoreErrors bool
	// MinRate is the clamping floor for sampled rates. Zero selects DefaultMinRate.
	MinRate float64
	// Rng supplies randomness. Nil selects a time-seeded source.
	Rng Source
}

// Humanoid sequences characters through an injection session with
// human-plausible gaps between them.
type Humanoid struct {
	config Config
	timing *TimingModel
	clock  Clock
	logger *zap.Logger
}

// New validates the configuration and builds the timing model. Invalid
// parameters fail here, before any backend is touched.
func New(config Config, logger *zap.Logger, clock Clock) (*Humanoid, error) {
	timing, err := NewTimingModel(config.Speed, config.UnstableRate, config.MinRate, config.Rng)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = RealClock()
	}
	return &Humanoid{
		config: config,
		timing: timing,
		clock:  clock,
		logger: logger.Named("humanoid"),
	}, nil
}

// Timing exposes the underlying model.
func (h *Humanoid) Timing() *TimingModel { return h.timing }
