// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/keysim/internal/config"
	"github.com/xkilldash9x/keysim/internal/humanoid"
	"github.com/xkilldash9x/keysim/internal/inject"
	"github.com/xkilldash9x/keysim/internal/observability"
)

// Function variables for dependency injection in tests.
var (
	newBackend = inject.NewBackend
	newClock   = humanoid.RealClock
)

// flagBindings maps command-line flags onto configuration keys.
var flagBindings = map[string]string{
	"speed":              "simulation.speed",
	"unstable-rate":      "simulation.unstable_rate",
	"ignore-errors":      "simulation.ignore_errors",
	"min-rate":           "simulation.min_rate",
	"seed":               "simulation.seed",
	"backend":            "backend.name",
	"keybd-settle-delay": "backend.keybd.settle_delay",
	"cdp-url":            "backend.cdp.remote_url",
	"cdp-start-url":      "backend.cdp.start_url",
	"cdp-headless":       "backend.cdp.headless",
	"record-output":      "backend.record.output",
	"log-level":          "logger.level",
	"log-format":         "logger.format",
	"log-file":           "logger.log_file",
}

// NewRootCommand builds a fresh command tree with its own viper instance, so
// flags from one invocation never leak into the next.
func NewRootCommand() *cobra.Command {
	v := config.NewViper()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "keysim <text>",
		Short: "Types text one keystroke at a time with human-like timing.",
		Long: `keysim sends each character of <text> to an input backend, waiting a
randomized delay before every keystroke. The delay is the reciprocal of a rate
drawn from a normal distribution with mean --speed and standard deviation
--unstable-rate (characters/second).`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(v, cfgFile); err != nil {
				return err
			}

			// UnmarshalKey on a parent key skips bound flags and env; decode
			// the whole tree so logger.* follows the same precedence.
			var cfg config.Config
			if err := v.Unmarshal(&cfg); err != nil {
				observability.InitializeLogger(config.NewDefaultConfig().Logger)
				return fmt.Errorf("failed to unmarshal logger config: %w", err)
			}
			observability.InitializeLogger(cfg.Logger)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd.Context(), v, args[0], cmd.OutOrStdout())
		},
	}
	cmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)

	flags := cmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./keysim.yaml or ~/.config/keysim/keysim.yaml)")
	flags.Float64P("speed", "s", 5.0, "mean typing rate in characters/second")
	flags.Float64P("unstable-rate", "u", 0.0, "standard deviation of the typing rate")
	flags.BoolP("ignore-errors", "i", false, "keep typing when a character fails to send")
	flags.Float64("min-rate", humanoid.DefaultMinRate, "floor for sampled rates; bounds the longest delay")
	flags.Int64("seed", 0, "seed for the timing jitter (0 seeds from the clock)")
	flags.StringP("backend", "b", config.BackendKeybd, "injection backend: keybd, cdp or record")
	flags.Duration("keybd-settle-delay", config.NewDefaultConfig().Backend.Keybd.SettleDelay, "wait after creating the virtual keyboard")
	flags.String("cdp-url", "", "DevTools websocket URL of a running browser (launches one if empty)")
	flags.String("cdp-start-url", "", "page to open before typing")
	flags.Bool("cdp-headless", false, "launch the browser headless")
	flags.String("record-output", inject.StdoutOutput, "record backend destination: stdout or a file path")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("log-format", "console", "log format: console or json")
	flags.String("log-file", "", "also write JSON logs to this file")

	if err := bindFlags(v, flags); err != nil {
		panic(err)
	}
	return cmd
}

// bindFlags attaches each flag in flagBindings to its configuration key.
// A bound flag only wins over env and file values when set explicitly.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagBindings {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("flag %q is not defined", name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", name, err)
		}
	}
	return nil
}

// Execute runs the root command against os.Args.
func Execute(ctx context.Context) error {
	defer observability.Sync()
	return NewRootCommand().ExecuteContext(ctx)
}

// initializeConfig reads the config file, if any. An explicitly named file
// must exist; the default locations are optional.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to expand config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		// No SetConfigType: with a type set viper also matches an
		// extensionless "keysim", which is the binary itself.
		v.SetConfigName("keysim")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "keysim"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// runSimulation validates the configuration, builds the typist and the
// backend, and types text. Invalid timing fails before the backend is built.
func runSimulation(ctx context.Context, v *viper.Viper, text string, stdout io.Writer) error {
	cfg, err := config.NewConfigFromViper(v)
	if err != nil {
		return err
	}

	logger := observability.GetLogger().With(zap.String("run_id", uuid.NewString()))

	h, err := humanoid.New(cfg.Simulation.Humanoid(), logger, newClock())
	if err != nil {
		return err
	}

	backend, release, err := newBackend(cfg.Backend, logger, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn("Failed to release backend output.", zap.Error(err))
		}
	}()

	logger.Info("Starting simulation.",
		zap.String("backend", backend.Name()),
		zap.Int("characters", utf8.RuneCountInString(text)),
		zap.Float64("speed", cfg.Simulation.Speed),
		zap.Float64("unstable_rate", cfg.Simulation.UnstableRate),
	)

	report, err := h.Simulate(ctx, backend, text)
	if err != nil {
		return err
	}

	logger.Info("Simulation finished.",
		zap.Int("attempted", report.Attempted),
		zap.Int("delivered", report.Delivered),
		zap.Int("tolerated", report.Tolerated),
	)
	return nil
}
