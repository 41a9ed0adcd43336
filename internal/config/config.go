// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xkilldash9x/keysim/internal/humanoid"
)

// Backend names accepted by backend.name.
const (
	BackendKeybd  = "keybd"
	BackendCDP    = "cdp"
	BackendRecord = "record"
)

// Config holds the entire application configuration.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	Backend    BackendConfig    `mapstructure:"backend" yaml:"backend"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// SimulationConfig holds the timing and failure policy of a run.
type SimulationConfig struct {
	// Speed is the mean rate in characters/second.
	Speed float64 `mapstructure:"speed" yaml:"speed"`
	// UnstableRate is the standard deviation of the rate.
	UnstableRate float64 `mapstructure:"unstable_rate" yaml:"unstable_rate"`
	IgnoreErrors bool    `mapstructure:"ignore_errors" yaml:"ignore_errors"`
	// MinRate is the floor a sampled rate is clamped to.
	MinRate float64 `mapstructure:"min_rate" yaml:"min_rate"`
	// Seed for the jitter source; 0 seeds from the clock.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// BackendConfig selects and tunes the injection backend.
type BackendConfig struct {
	Name   string       `mapstructure:"name" yaml:"name"`
	Keybd  KeybdConfig  `mapstructure:"keybd" yaml:"keybd"`
	CDP    CDPConfig    `mapstructure:"cdp" yaml:"cdp"`
	Record RecordConfig `mapstructure:"record" yaml:"record"`
}

// KeybdConfig configures the OS keyboard backend.
type KeybdConfig struct {
	// SettleDelay gives the OS time to register the virtual device before the first key.
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
}

// CDPConfig configures the Chrome DevTools Protocol backend.
type CDPConfig struct {
	// RemoteURL attaches to a running browser (ws://...); empty launches one.
	RemoteURL string `mapstructure:"remote_url" yaml:"remote_url"`
	// StartURL is navigated to before typing begins.
	StartURL string   `mapstructure:"start_url" yaml:"start_url"`
	Headless bool     `mapstructure:"headless" yaml:"headless"`
	Args     []string `mapstructure:"args" yaml:"args"`
}

// RecordConfig configures the recording backend.
type RecordConfig struct {
	// Output is "stdout" or a file path.
	Output string `mapstructure:"output" yaml:"output"`
}

// Humanoid converts the simulation settings into the typist's configuration.
func (s SimulationConfig) Humanoid() humanoid.Config {
	return humanoid.Config{
		Speed:        s.Speed,
		UnstableRate: s.UnstableRate,
		IgnoreErrors: s.IgnoreErrors,
		MinRate:      s.MinRate,
		Rng:          humanoid.NewSource(s.Seed),
	}
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "keysim")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Simulation --
	v.SetDefault("simulation.speed", 5.0)
	v.SetDefault("simulation.unstable_rate", 0.0)
	v.SetDefault("simulation.ignore_errors", false)
	v.SetDefault("simulation.min_rate", humanoid.DefaultMinRate)
	v.SetDefault("simulation.seed", 0)

	// -- Backend --
	v.SetDefault("backend.name", BackendKeybd)
	v.SetDefault("backend.keybd.settle_delay", "2s")
	v.SetDefault("backend.cdp.remote_url", "")
	v.SetDefault("backend.cdp.start_url", "")
	v.SetDefault("backend.cdp.headless", false)
	v.SetDefault("backend.record.output", "stdout")
}

// EnvPrefix is prepended to environment overrides, e.g. KEYSIM_SIMULATION_SPEED.
const EnvPrefix = "KEYSIM"

// NewViper returns a viper instance with defaults and environment binding applied.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewConfigFromViper creates a new, validated configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	if err := c.Backend.Validate(); err != nil {
		return fmt.Errorf("backend configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the timing parameters. Errors wrap humanoid.ErrInvalidConfig.
func (s *SimulationConfig) Validate() error {
	return humanoid.ValidateRates(s.Speed, s.UnstableRate, s.MinRate)
}

// Validate checks the backend selection.
func (b *BackendConfig) Validate() error {
	switch strings.ToLower(b.Name) {
	case BackendKeybd:
		if b.Keybd.SettleDelay < 0 {
			return fmt.Errorf("keybd.settle_delay must not be negative")
		}
	case BackendCDP:
	case BackendRecord:
		if b.Record.Output == "" {
			return fmt.Errorf("record.output must not be empty")
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s, %s or %s)", b.Name, BackendKeybd, BackendCDP, BackendRecord)
	}
	return nil
}
