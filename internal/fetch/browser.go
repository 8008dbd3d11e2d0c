// Package fetch - browser.go provides headless browser rendering for client-rendered portfolio pages.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/portfolio-migrator/internal/logging"
)

// MinContentLength is the minimum extracted text length to consider an HTTP fetch sufficient.
// If content is shorter, the page is most likely rendered client-side.
const MinContentLength = 500

// DefaultBrowserTimeout bounds a whole headless render.
const DefaultBrowserTimeout = 30 * time.Second

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely a JavaScript-rendered SPA.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, logger *logging.Logger) (string, error) {
	if logger != nil {
		logger.Debug("Starting headless browser", map[string]any{"url": url})
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// entrance animations on portfolio pages delay the real markup
		chromedp.Sleep(3*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if logger != nil {
		logger.Debug("Rendered HTML", map[string]any{"url": url, "bytes": len(html)})
	}

	return html, nil
}
