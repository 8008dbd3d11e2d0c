package images

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/portfolio-migrator/internal/fetch"
	"github.com/jonathan/portfolio-migrator/internal/logging"
	"github.com/jonathan/portfolio-migrator/internal/monitoring"
)

// ImageFetcher performs a single download attempt.
type ImageFetcher interface {
	DownloadImage(ctx context.Context, cfg DownloadConfig) DownloadResult
}

// BatchOptions configures DownloadBatch.
type BatchOptions struct {
	// MaxRetries is the total number of attempts per image; values below 1 mean one attempt.
	MaxRetries int
	// Delay is multiplied by the attempt number between attempts.
	Delay   time.Duration
	Logger  *logging.Logger
	Metrics *monitoring.Metrics
}

// DownloadBatch downloads configs sequentially and returns one result per config, in order.
// A failed attempt is retried after Delay*attempt until MaxRetries attempts were made.
func DownloadBatch(ctx context.Context, fetcher ImageFetcher, configs []DownloadConfig, opts BatchOptions) []DownloadResult {
	maxRetries := opts.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	results := make([]DownloadResult, 0, len(configs))
	for _, cfg := range configs {
		var result DownloadResult
		for attempt := 1; ; attempt++ {
			result = fetcher.DownloadImage(ctx, cfg)
			if result.Success || attempt >= maxRetries {
				break
			}

			if opts.Logger != nil {
				opts.Logger.Warn(fmt.Sprintf("Retry %d/%d for %s", attempt, maxRetries, cfg.URL),
					map[string]any{"error": result.Error})
			}
			opts.Metrics.ObserveRetry()

			if err := fetch.Sleep(ctx, opts.Delay*time.Duration(attempt)); err != nil {
				break
			}
		}
		results = append(results, result)
	}
	return results
}
