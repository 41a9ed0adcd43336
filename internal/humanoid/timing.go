package humanoid

import (
	"math"
	"math/rand"
	"time"
)

const (
	// DefaultMinRate is the clamping floor (characters/second) applied when a
	// sampled rate collapses towards zero. It bounds a single wait to 100s.
	// A zero min rate selects it.
	DefaultMinRate = 0.01

	// minBoundedRate is the rate whose reciprocal is exactly MaxInt64
	// nanoseconds. Floors must be strictly faster.
	minBoundedRate = float64(time.Second) / float64(math.MaxInt64)
)

// DelaySample is the wait computed for one character. It is never reused.
type DelaySample struct {
	// Rate is the clamped characters-per-second value drawn for this character.
	Rate float64
	// Seconds is 1/Rate, always finite and > 0.
	Seconds float64
}

// Duration converts the sample into a wait, rounding to the nearest
// nanosecond. The result lies in [1ns, math.MaxInt64].
func (s DelaySample) Duration() time.Duration {
	ns := math.Round(s.Seconds * float64(time.Second))
	if ns >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	d := time.Duration(ns)
	if d < 1 {
		d = 1
	}
	return d
}

// TimingModel turns a mean typing rate and its standard deviation into a
// strictly positive per-character delay.
type TimingModel struct {
	mean   float64
	stdDev float64
	floor  float64
	rng    Source
}

// ValidateRates checks the timing parameters once, at configuration time.
// All failures wrap ErrInvalidConfig.
func ValidateRates(meanRate, variability, minRate float64) error {
	minRate = effectiveMinRate(minRate)
	switch {
	case math.IsNaN(meanRate) || math.IsInf(meanRate, 0):
		return invalidConfigf("speed must be a finite number, got %v", meanRate)
	case meanRate <= 0:
		return invalidConfigf("speed must be greater than 0, got %v", meanRate)
	case math.IsNaN(variability) || math.IsInf(variability, 0):
		return invalidConfigf("unstable rate must be a finite number, got %v", variability)
	case variability < 0:
		return invalidConfigf("unstable rate must not be negative, got %v", variability)
	case math.IsNaN(minRate) || math.IsInf(minRate, 0) || minRate <= 0:
		return invalidConfigf("min rate must be a finite number greater than 0 (0 selects the default), got %v", minRate)
	}
	if math.Min(minRate, meanRate) <= minBoundedRate {
		return invalidConfigf("rate floor %v is too small to produce a bounded delay", math.Min(minRate, meanRate))
	}
	return nil
}

// NewTimingModel builds a normal distribution with mean meanRate and standard
// deviation variability. A zero minRate selects DefaultMinRate. A nil rng is replaced by a time-seeded source.
func NewTimingModel(meanRate, variability, minRate float64, rng Source) (*TimingModel, error) {
	if err := ValidateRates(meanRate, variability, minRate); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewSource(0)
	}
	return &TimingModel{
		mean:   meanRate,
		stdDev: variability,
		// The floor never exceeds the mean so a zero-variance model stays exact.
		floor: math.Min(effectiveMinRate(minRate), meanRate),
		rng:   rng,
	}, nil
}

func effectiveMinRate(minRate float64) float64 {
	if minRate == 0 {
		return DefaultMinRate
	}
	return minRate
}

// Floor returns the effective clamping floor in characters/second.
func (m *TimingModel) Floor() float64 { return m.floor }

// Sample draws the next rate and converts it into a delay.
func (m *TimingModel) Sample() DelaySample {
	rate := math.Abs(m.mean + m.stdDev*m.rng.NormFloat64())
	if math.IsInf(rate, 0) {
		rate = math.MaxFloat64
	}
	// Catches exact zero and subnormal draws.
	if rate < m.floor {
		rate = m.floor
	}
	return DelaySample{Rate: rate, Seconds: 1 / rate}
}

// NewSource returns a math/rand source. A zero seed means "seed from the clock".
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
