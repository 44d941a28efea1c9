package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"iplstats/internal/config"

	"github.com/chromedp/chromedp"
)

// StartupError is returned by Session.Start. Any startup failure ends the run.
type StartupError struct {
	Stage string // launch, open-page or navigate
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("browser startup failed at %s: %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// Session owns one headless Chrome and one tab for the lifetime of a run.
type Session struct {
	cfg    *config.Config
	logger *slog.Logger

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	tabCtx        context.Context
	tabCancel     context.CancelFunc
}

func NewSession(cfg *config.Config, logger *slog.Logger) *Session {
	return &Session{cfg: cfg, logger: logger}
}

// AllocatorOptions returns the Chrome command line used for every session.
func AllocatorOptions(cfg *config.Config) []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,

		// Disable updates and popups
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-component-update", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-default-apps", true),

		// Basic settings
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.Headless),
		chromedp.WindowSize(int(cfg.ViewportWidth), int(cfg.ViewportHeight)),

		// Stability flags
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-backgrounding-occluded-windows", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("no-sandbox", true),
	)
}

// Start launches the browser, opens the tab, sizes the viewport and loads the
// configured URL. The returned context drives the tab. On error the caller
// must still call Stop.
func (s *Session) Start(ctx context.Context) (context.Context, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, AllocatorOptions(s.cfg)...)
	s.allocCancel = allocCancel

	s.browserCtx, s.browserCancel = chromedp.NewContext(
		allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			s.logger.Debug(fmt.Sprintf("CHROME: "+format, args...))
		}),
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			s.logger.Debug(fmt.Sprintf("CHROME error: "+format, args...))
		}),
	)

	s.logger.Info("Starting new browser instance...")
	if err := chromedp.Run(s.browserCtx); err != nil {
		return nil, &StartupError{Stage: "launch", Err: err}
	}

	// The first Run on a fresh context allocates its target, so it must not
	// carry a deadline or the tab would die with it.
	s.tabCtx, s.tabCancel = chromedp.NewContext(s.browserCtx)
	if err := chromedp.Run(s.tabCtx); err != nil {
		return nil, &StartupError{Stage: "open-page", Err: err}
	}

	s.logger.Info("Navigating", "url", s.cfg.URL)
	navCtx, navCancel := context.WithTimeout(s.tabCtx, s.cfg.NavigationTimeout)
	defer navCancel()

	if err := chromedp.Run(navCtx,
		chromedp.EmulateViewport(s.cfg.ViewportWidth, s.cfg.ViewportHeight),
		chromedp.Navigate(s.cfg.URL),
	); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("navigation timed out after %v: %w", s.cfg.NavigationTimeout, err)
		}
		return nil, &StartupError{Stage: "navigate", Err: err}
	}

	return s.tabCtx, nil
}

// Stop closes the tab, then the browser, then the allocator. It is safe to
// call after a failed Start and more than once.
func (s *Session) Stop() error {
	var errs []error

	if s.tabCtx != nil {
		s.logger.Info("Closing page...")
		if err := chromedp.Cancel(s.tabCtx); err != nil && !errors.Is(err, context.Canceled) {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
		s.tabCancel()
		s.tabCtx = nil
	}

	if s.browserCtx != nil {
		s.logger.Info("Closing browser...")
		if err := chromedp.Cancel(s.browserCtx); err != nil && !errors.Is(err, context.Canceled) {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
		s.browserCancel()
		s.browserCtx = nil
	}

	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}

	return errors.Join(errs...)
}
