package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jonathan/job-scout/internal/antiblock"
)

// Options configures Chrome sessions.
type Options struct {
	Headless        bool
	ExecPath        string
	PageLoadTimeout time.Duration
	// SettleDelay gives client-side rendering time to finish after the body is ready.
	SettleDelay time.Duration
}

// DefaultOptions returns headless Chrome with a 30s page load timeout.
func DefaultOptions() Options {
	return Options{
		Headless:        true,
		PageLoadTimeout: 30 * time.Second,
		SettleDelay:     2 * time.Second,
	}
}

// ChromeLauncher starts headless Chrome through chromedp. Requires Chrome/Chromium on the system.
type ChromeLauncher struct {
	opts   Options
	logger *zap.Logger
}

// NewChromeLauncher creates a launcher with opts.
func NewChromeLauncher(opts Options, logger *zap.Logger) *ChromeLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PageLoadTimeout <= 0 {
		opts.PageLoadTimeout = DefaultOptions().PageLoadTimeout
	}
	return &ChromeLauncher{opts: opts, logger: logger}
}

func (l *ChromeLauncher) allocatorOptions(id antiblock.Identity) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if id.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(id.UserAgent))
	}
	if id.Viewport.Width > 0 && id.Viewport.Height > 0 {
		opts = append(opts, chromedp.WindowSize(id.Viewport.Width, id.Viewport.Height))
	}
	if id.Proxy != "" {
		opts = append(opts, chromedp.ProxyServer(id.Proxy))
	}
	if l.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.opts.ExecPath))
	}
	return opts
}

// Launch starts a browser and applies the identity's headers and timezone.
// The browser process is started eagerly so a missing binary fails here.
func (l *ChromeLauncher) Launch(ctx context.Context, id antiblock.Identity) (Driver, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, l.allocatorOptions(id)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	setup := []chromedp.Action{network.Enable()}
	if len(id.Headers) > 0 {
		headers := make(network.Headers, len(id.Headers))
		for k, v := range id.Headers {
			headers[k] = v
		}
		setup = append(setup, network.SetExtraHTTPHeaders(headers))
	}
	if id.Timezone != "" {
		setup = append(setup, emulation.SetTimezoneOverride(id.Timezone))
	}

	if err := chromedp.Run(browserCtx, setup...); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	return &chromeDriver{
		ctx:         browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
		opts:        l.opts,
		logger:      l.logger,
	}, nil
}

type chromeDriver struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        Options
	logger      *zap.Logger
}

// bounded derives a context from the tab that expires after the page load
// timeout or when ctx is cancelled, whichever happens first.
func (d *chromeDriver) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	tctx, cancel := context.WithTimeout(d.ctx, d.opts.PageLoadTimeout)
	stop := context.AfterFunc(ctx, cancel)
	return tctx, func() {
		stop()
		cancel()
	}
}

func (d *chromeDriver) Navigate(ctx context.Context, url string) error {
	tctx, cancel := d.bounded(ctx)
	defer cancel()

	start := time.Now()
	err := chromedp.Run(tctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(d.opts.SettleDelay),
	)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	d.logger.Debug("page loaded", zap.String("url", url), zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (d *chromeDriver) HTML(ctx context.Context) (string, error) {
	tctx, cancel := d.bounded(ctx)
	defer cancel()

	var html string
	if err := chromedp.Run(tctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read page source: %w", err)
	}
	return html, nil
}

func (d *chromeDriver) Close() error {
	defer d.allocCancel()
	defer d.cancel()
	return chromedp.Cancel(d.ctx)
}
