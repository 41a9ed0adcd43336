// internal/inject/cdp/cdp.go
package cdp

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/keysim/internal/config"
	"github.com/xkilldash9x/keysim/internal/humanoid"
)

var (
	_ humanoid.Backend = (*Backend)(nil)
	_ humanoid.Session = (*session)(nil)
)

// Backend types into a Chrome page over the DevTools protocol. It either
// launches a browser or connects to one already listening on RemoteURL.
type Backend struct {
	cfg    config.CDPConfig
	logger *zap.Logger
}

// New creates a CDP backend.
func New(cfg config.CDPConfig, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{cfg: cfg, logger: logger.Named("cdp")}
}

// Name implements humanoid.Backend.
func (b *Backend) Name() string { return config.BackendCDP }

// Open connects to the browser and opens the page that receives the keys.
// Against a remote browser a new tab is opened and closed again by Close.
func (b *Backend) Open(ctx context.Context) (humanoid.Session, error) {
	// The session outlives Open; its lifetime is bounded by Close.
	root := context.WithoutCancel(ctx)

	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if b.cfg.RemoteURL != "" {
		b.logger.Debug("Connecting to remote browser.", zap.String("url", b.cfg.RemoteURL))
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(root, b.cfg.RemoteURL)
	} else {
		allocCtx, allocCancel = chromedp.NewExecAllocator(root, b.execOptions()...)
	}

	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(b.logger.Sugar().Debugf),
		chromedp.WithErrorf(b.logger.Sugar().Debugf),
	)
	release := func() {
		tabCancel()
		allocCancel()
	}

	// The first Run allocates the browser and must use tabCtx itself: a
	// derived context would take the browser down when it is cancelled.
	if err := chromedp.Run(tabCtx); err != nil {
		release()
		return nil, fmt.Errorf("could not start browser session: %w", err)
	}

	actions := []chromedp.Action{page.BringToFront()}
	if b.cfg.StartURL != "" {
		actions = append(actions, chromedp.Navigate(b.cfg.StartURL))
	}
	if err := runWithCancel(ctx, tabCtx, actions...); err != nil {
		release()
		return nil, fmt.Errorf("could not start browser session: %w", err)
	}

	return &session{
		ctx:    tabCtx,
		cancel: release,
		run:    runWithCancel,
		logger: b.logger,
	}, nil
}

func (b *Backend) execOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", b.cfg.Headless))
	for _, arg := range b.cfg.Args {
		name, value := parseFlag(arg)
		if name == "" {
			continue
		}
		opts = append(opts, chromedp.Flag(name, value))
	}
	return opts
}

// parseFlag turns "--name=value" or "--name" into a chromedp flag.
func parseFlag(arg string) (string, interface{}) {
	arg = strings.TrimLeft(strings.TrimSpace(arg), "-")
	name, value, found := strings.Cut(arg, "=")
	if !found {
		return name, true
	}
	return name, value
}

// runWithCancel runs actions on the browser context chromeCtx, aborting when
// the caller's ctx is done.
func runWithCancel(ctx, chromeCtx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opCtx, cancel := context.WithCancel(chromeCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(opCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	run    func(ctx, chromeCtx context.Context, actions ...chromedp.Action) error
	logger *zap.Logger
	closed bool
}

// Send dispatches the key events for one character to the page.
func (s *session) Send(ctx context.Context, char rune) error {
	if s.closed {
		return fmt.Errorf("cdp: session closed")
	}
	if err := s.run(ctx, s.ctx, chromedp.KeyEvent(string(char))); err != nil {
		return fmt.Errorf("key event failed: %w", err)
	}
	return nil
}

// Close closes the tab and shuts down a browser this session launched.
func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	s.logger.Debug("Browser session closed.")
	return nil
}
