package images

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-migrator/internal/logging"
	"github.com/jonathan/portfolio-migrator/internal/monitoring"
)

// flakyFetcher fails the first failures[url] attempts for each URL.
type flakyFetcher struct {
	failures map[string]int
	calls    map[string]int
}

func newFlakyFetcher(failures map[string]int) *flakyFetcher {
	return &flakyFetcher{failures: failures, calls: map[string]int{}}
}

func (f *flakyFetcher) DownloadImage(_ context.Context, cfg DownloadConfig) DownloadResult {
	f.calls[cfg.URL]++
	if f.calls[cfg.URL] <= f.failures[cfg.URL] {
		return DownloadResult{Error: fmt.Sprintf("HTTP 503: attempt %d", f.calls[cfg.URL])}
	}
	return DownloadResult{Success: true, Filepath: cfg.Path()}
}

func TestDownloadBatch_RetryBound(t *testing.T) {
	fetcher := newFlakyFetcher(map[string]int{"https://a.io/x.png": 100})
	logger := logging.Discard()
	metrics := monitoring.New()

	results := DownloadBatch(context.Background(), fetcher, []DownloadConfig{
		{URL: "https://a.io/x.png", Filename: "x.png", Directory: "d"},
	}, BatchOptions{MaxRetries: 3, Delay: time.Millisecond, Logger: logger, Metrics: metrics})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, "HTTP 503: attempt 3", results[0].Error)
	assert.Equal(t, 3, fetcher.calls["https://a.io/x.png"])
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.DownloadRetries))

	warnings := logger.EntriesByLevel(logging.LevelWarn)
	require.Len(t, warnings, 2)
	assert.Equal(t, "Retry 1/3 for https://a.io/x.png", warnings[0].Message)
	assert.Equal(t, "Retry 2/3 for https://a.io/x.png", warnings[1].Message)
}

func TestDownloadBatch_StopsAfterSuccess(t *testing.T) {
	fetcher := newFlakyFetcher(map[string]int{"b": 1})

	results := DownloadBatch(context.Background(), fetcher, []DownloadConfig{
		{URL: "a", Filename: "a.jpg", Directory: "d"},
		{URL: "b", Filename: "b.jpg", Directory: "d"},
		{URL: "c", Filename: "c.jpg", Directory: "d"},
	}, BatchOptions{MaxRetries: 3, Delay: time.Millisecond})

	require.Len(t, results, 3)
	for i, r := range results {
		assert.True(t, r.Success, i)
	}
	assert.Equal(t, "d/b.jpg", filepath.ToSlash(results[1].Filepath))
	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 1}, fetcher.calls)
}

func TestDownloadBatch_AtLeastOneAttempt(t *testing.T) {
	fetcher := newFlakyFetcher(map[string]int{"a": 5})

	results := DownloadBatch(context.Background(), fetcher, []DownloadConfig{{URL: "a"}}, BatchOptions{})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, 1, fetcher.calls["a"])
}

func TestDownloadBatch_CancelledContextStopsRetrying(t *testing.T) {
	fetcher := newFlakyFetcher(map[string]int{"a": 5})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := DownloadBatch(ctx, fetcher, []DownloadConfig{{URL: "a"}}, BatchOptions{MaxRetries: 5, Delay: time.Hour})

	require.Len(t, results, 1)
	assert.Equal(t, 1, fetcher.calls["a"])
}
