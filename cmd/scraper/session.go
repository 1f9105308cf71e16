package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"

	"github.com/aluiziolira/go-scrape-evds/browser"
	"github.com/aluiziolira/go-scrape-evds/config"
	"github.com/aluiziolira/go-scrape-evds/portal"
)

// openPortal starts a browser and returns the portal driver bound to it.
// The returned function closes the browser.
func openPortal(ctx context.Context, cfg *config.Config) (context.Context, *portal.Portal, func(), error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, browser.AllocatorOptions(cfg)...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			slog.Debug(fmt.Sprintf(format, args...), slog.String("source", "chromedp"))
		}),
	)
	closeBrowser := func() {
		cancelBrowser()
		cancelAlloc()
	}

	// an empty run launches the browser so a missing executable fails here
	if err := chromedp.Run(browserCtx); err != nil {
		closeBrowser()
		return nil, nil, nil, fmt.Errorf("start browser: %w", err)
	}
	slog.Debug("browser started", slog.Bool("headless", cfg.Headless))

	return browserCtx, portal.New(browser.NewChrome(cfg), cfg), closeBrowser, nil
}
