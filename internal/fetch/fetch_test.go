package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-migrator/internal/logging"
	"github.com/jonathan/portfolio-migrator/internal/migrationerr"
	"github.com/jonathan/portfolio-migrator/internal/monitoring"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestURL_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, &Options{Timeout: 50 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestExtractMainText_WithMainElement(t *testing.T) {
	html := `
	<html>
		<body>
			<script>var x = 1;</script>
			<main>
				<h1>Main Content</h1>
				<p>This is the important text.</p>
			</main>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Main Content")
	assert.Contains(t, text, "important text")
	assert.NotContains(t, text, "var x")
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	html := `<html><body><div>Some content here.</div></body></html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Some content here.", text)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("  short  "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength)))
}

func TestRetrier_SucceedsAfterFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	var delays []time.Duration
	metrics := monitoring.New()
	r := &Retrier{
		Source:   &HTTPSource{},
		Attempts: 3,
		Delay:    time.Second,
		Logger:   logging.Discard(),
		Metrics:  metrics,
		sleep: func(_ context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		},
	}

	html, err := r.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", html)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.FetchAttempts.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchAttempts.WithLabelValues("success")))
}

func TestRetrier_ExhaustsAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := &Retrier{
		Source:   &HTTPSource{},
		Attempts: 4,
		sleep:    func(context.Context, time.Duration) error { return nil },
	}

	_, err := r.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))

	var merr *migrationerr.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, migrationerr.CodeNetwork, merr.Code)
	assert.Equal(t, http.StatusInternalServerError, merr.Context["statusCode"])

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr, "last underlying error stays in the chain")
}

func TestRetrier_PerAttemptTimeout(t *testing.T) {
	var calls int32
	slow := SourceFunc(func(ctx context.Context, _ string) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-ctx.Done()
		return "", ctx.Err()
	})

	r := &Retrier{Source: slow, Attempts: 2, Timeout: 10 * time.Millisecond, Delay: time.Millisecond}

	_, err := r.Fetch(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRetrier_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int32
	failing := SourceFunc(func(context.Context, string) (string, error) {
		atomic.AddInt32(&calls, 1)
		cancel()
		return "", errors.New("down")
	})

	r := &Retrier{Source: failing, Attempts: 5, Delay: time.Hour}

	_, err := r.Fetch(ctx, "https://example.com")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAutoSource_UsesBrowserForThinPages(t *testing.T) {
	static := SourceFunc(func(context.Context, string) (string, error) {
		return `<html><body><div id="root"></div></body></html>`, nil
	})
	browser := SourceFunc(func(context.Context, string) (string, error) {
		return "<html><body>rendered</body></html>", nil
	})

	s := &AutoSource{HTTP: static, Browser: browser, Logger: logging.Discard()}
	html, err := s.Fetch(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Contains(t, html, "rendered")
}

func TestAutoSource_KeepsStaticHTMLWhenBrowserFails(t *testing.T) {
	static := SourceFunc(func(context.Context, string) (string, error) {
		return `<html><body>thin</body></html>`, nil
	})
	browser := SourceFunc(func(context.Context, string) (string, error) {
		return "", errors.New("no chrome")
	})

	s := &AutoSource{HTTP: static, Browser: browser}
	html, err := s.Fetch(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Contains(t, html, "thin")
}

func TestAutoSource_SkipsBrowserForRichPages(t *testing.T) {
	rich := "<html><body><main>" + strings.Repeat("portfolio text ", 60) + "</main></body></html>"
	static := SourceFunc(func(context.Context, string) (string, error) { return rich, nil })
	browser := SourceFunc(func(context.Context, string) (string, error) {
		t.Fatal("browser should not be used")
		return "", nil
	})

	s := &AutoSource{HTTP: static, Browser: browser}
	html, err := s.Fetch(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, rich, html)
}
