// Package inject builds the injection backend named by the configuration.
package inject

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/xkilldash9x/keysim/internal/config"
	"github.com/xkilldash9x/keysim/internal/humanoid"
	"github.com/xkilldash9x/keysim/internal/inject/cdp"
	"github.com/xkilldash9x/keysim/internal/inject/keybd"
	"github.com/xkilldash9x/keysim/internal/inject/record"
)

// StdoutOutput selects standard output for the record backend.
const StdoutOutput = "stdout"

// NewBackend returns the configured backend and a release function for any
// resource it holds outside of a session, such as a record output file.
func NewBackend(cfg config.BackendConfig, logger *zap.Logger, stdout io.Writer) (humanoid.Backend, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Name) {
	case config.BackendKeybd:
		return keybd.New(cfg.Keybd, logger), noop, nil
	case config.BackendCDP:
		return cdp.New(cfg.CDP, logger), noop, nil
	case config.BackendRecord:
		if cfg.Record.Output == StdoutOutput {
			return record.New(stdout), noop, nil
		}
		f, err := openOutput(cfg.Record.Output)
		if err != nil {
			return nil, nil, err
		}
		return record.New(f), f.Close, nil
	}
	// Unreachable after Validate.
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Name)
}

func openOutput(path string) (*os.File, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand record output path %q: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create record output directory: %w", err)
	}
	f, err := os.OpenFile(expanded, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open record output: %w", err)
	}
	return f, nil
}
