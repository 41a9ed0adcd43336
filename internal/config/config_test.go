// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/keysim/internal/humanoid"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "keysim", cfg.Logger.ServiceName)
	assert.Equal(t, 5.0, cfg.Simulation.Speed)
	assert.Equal(t, 0.0, cfg.Simulation.UnstableRate)
	assert.False(t, cfg.Simulation.IgnoreErrors)
	assert.Equal(t, humanoid.DefaultMinRate, cfg.Simulation.MinRate)
	assert.Equal(t, BackendKeybd, cfg.Backend.Name)
	assert.Equal(t, 2*time.Second, cfg.Backend.Keybd.SettleDelay)
	assert.Equal(t, "stdout", cfg.Backend.Record.Output)

	assert.NoError(t, cfg.Validate(), "defaults must be valid")
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	t.Run("Simulation Validation", func(t *testing.T) {
		cfg := NewDefaultConfig()

		negative := *cfg
		negative.Simulation.UnstableRate = -0.5
		err := negative.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, humanoid.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "unstable rate must not be negative")

		zeroSpeed := *cfg
		zeroSpeed.Simulation.Speed = 0
		err = zeroSpeed.Validate()
		assert.ErrorIs(t, err, humanoid.ErrInvalidConfig)

		zeroFloor := *cfg
		zeroFloor.Simulation.MinRate = 0
		assert.NoError(t, zeroFloor.Validate(), "zero min_rate selects the default floor")
		h, err := humanoid.New(zeroFloor.Simulation.Humanoid(), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, humanoid.DefaultMinRate, h.Timing().Floor())

		negativeFloor := *cfg
		negativeFloor.Simulation.MinRate = -1
		err = negativeFloor.Validate()
		assert.ErrorIs(t, err, humanoid.ErrInvalidConfig)
	})

	t.Run("Backend Validation", func(t *testing.T) {
		valid := BackendConfig{Name: BackendRecord, Record: RecordConfig{Output: "stdout"}}
		assert.NoError(t, valid.Validate())

		upper := valid
		upper.Name = "RECORD"
		assert.NoError(t, upper.Validate(), "backend names are case-insensitive")

		unknown := valid
		unknown.Name = "xdotool"
		err := unknown.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown backend "xdotool"`)

		noOutput := valid
		noOutput.Record.Output = ""
		assert.Error(t, noOutput.Validate())

		negativeSettle := BackendConfig{Name: BackendKeybd, Keybd: KeybdConfig{SettleDelay: -time.Second}}
		assert.Error(t, negativeSettle.Validate())

		cdp := BackendConfig{Name: BackendCDP}
		assert.NoError(t, cdp.Validate())
	})

	t.Run("Backend errors are not config errors", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Backend.Name = "nope"
		err := cfg.Validate()
		require.Error(t, err)
		assert.NotErrorIs(t, err, humanoid.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "backend configuration invalid")
	})
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
simulation:
  speed: 12.5
  unstable_rate: 3
  ignore_errors: true
backend:
  name: record
  record:
    output: /tmp/keysim.out
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, 12.5, cfg.Simulation.Speed)
		assert.Equal(t, 3.0, cfg.Simulation.UnstableRate)
		assert.True(t, cfg.Simulation.IgnoreErrors)
		assert.Equal(t, BackendRecord, cfg.Backend.Name)
		assert.Equal(t, "/tmp/keysim.out", cfg.Backend.Record.Output)
		// Defaults fill the gaps.
		assert.Equal(t, humanoid.DefaultMinRate, cfg.Simulation.MinRate)
		assert.Equal(t, "warn", cfg.Logger.Level)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("simulation.unstable_rate", -1.0)

		cfg, err := NewConfigFromViper(v)
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, humanoid.ErrInvalidConfig)
	})

	t.Run("Environment Variable Binding", func(t *testing.T) {
		t.Setenv("KEYSIM_SIMULATION_SPEED", "9.5")
		t.Setenv("KEYSIM_BACKEND_NAME", "cdp")
		t.Setenv("KEYSIM_BACKEND_CDP_REMOTE_URL", "ws://127.0.0.1:9222/devtools/browser/abc")

		v := NewViper()
		yamlConfig := []byte(`
simulation:
  speed: 1.0
`)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		// The environment overrides the config file.
		assert.Equal(t, 9.5, cfg.Simulation.Speed)
		assert.Equal(t, BackendCDP, cfg.Backend.Name)
		assert.Equal(t, "ws://127.0.0.1:9222/devtools/browser/abc", cfg.Backend.CDP.RemoteURL)
	})
}

func TestSimulationConfig_Humanoid(t *testing.T) {
	sim := SimulationConfig{Speed: 7, UnstableRate: 1.5, IgnoreErrors: true, MinRate: 0.2, Seed: 99}
	hc := sim.Humanoid()

	assert.Equal(t, 7.0, hc.Speed)
	assert.Equal(t, 1.5, hc.UnstableRate)
	assert.True(t, hc.IgnoreErrors)
	assert.Equal(t, 0.2, hc.MinRate)
	require.NotNil(t, hc.Rng)

	// The same seed yields the same jitter sequence.
	other := sim.Humanoid()
	for i := 0; i < 10; i++ {
		assert.Equal(t, hc.Rng.NormFloat64(), other.Rng.NormFloat64())
	}
}
