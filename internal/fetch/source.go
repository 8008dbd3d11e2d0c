package fetch

import (
	"context"
	"time"

	"github.com/jonathan/portfolio-migrator/internal/logging"
)

// Source returns the HTML of a page.
type Source interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, url string) (string, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// HTTPSource fetches pages with a plain GET.
type HTTPSource struct {
	Options *Options
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context, url string) (string, error) {
	result, err := URL(ctx, url, s.Options)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}

// BrowserSource renders pages in headless Chrome.
type BrowserSource struct {
	Timeout time.Duration
	Logger  *logging.Logger
}

// Fetch implements Source.
func (s *BrowserSource) Fetch(ctx context.Context, url string) (string, error) {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = DefaultBrowserTimeout
	}
	return WithBrowser(ctx, url, timeout, s.Logger)
}

// AutoSource fetches over HTTP and re-renders in a browser when the static HTML
// carries too little text, which usually means a client-rendered page.
type AutoSource struct {
	HTTP    Source
	Browser Source
	Logger  *logging.Logger
}

// Fetch implements Source.
func (s *AutoSource) Fetch(ctx context.Context, url string) (string, error) {
	html, err := s.HTTP.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	text, err := ExtractMainText(html, DefaultTextSelectors())
	if err != nil || !ShouldUseBrowser(text) || s.Browser == nil {
		return html, nil
	}

	if s.Logger != nil {
		s.Logger.Info("Static HTML looks client-rendered, falling back to browser", map[string]any{
			"url":       url,
			"textChars": len(text),
		})
	}

	rendered, browserErr := s.Browser.Fetch(ctx, url)
	if browserErr != nil {
		if s.Logger != nil {
			s.Logger.Warn("Browser rendering failed, using HTTP content", map[string]any{
				"url":   url,
				"error": browserErr.Error(),
			})
		}
		return html, nil
	}
	return rendered, nil
}
